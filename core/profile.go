package core

import "sort"

// TasteProfile 是从一次评分请求推导出的用户口味画像。
// 按请求构建、请求结束即丢弃，没有跨会话状态。
//
// 不变量：
//   - 锚点剧集在 LikedIDs 中出现两次（平均时天然获得双倍权重）
//   - DislikedIDs 中的 id 不会出现在 LikedIDs 中
//     （重复/矛盾评分在 profile.Validate 阶段被拒绝）
type TasteProfile struct {
	// LikedIDs 是喜欢剧集的多重集，保持评分输入顺序；锚点追加一次。
	LikedIDs []int64

	// DislikedIDs 是不喜欢的剧集集合。
	DislikedIDs map[int64]struct{}

	// AnchorIDs 是被标记为锚点的剧集集合。
	AnchorIDs map[int64]struct{}
}

func NewTasteProfile() *TasteProfile {
	return &TasteProfile{
		LikedIDs:    make([]int64, 0),
		DislikedIDs: make(map[int64]struct{}),
		AnchorIDs:   make(map[int64]struct{}),
	}
}

// HasLiked 判断 id 是否在喜欢多重集中。
func (p *TasteProfile) HasLiked(id int64) bool {
	if p == nil {
		return false
	}
	for _, liked := range p.LikedIDs {
		if liked == id {
			return true
		}
	}
	return false
}

// IsDisliked 判断 id 是否被标记为不喜欢。
func (p *TasteProfile) IsDisliked(id int64) bool {
	if p == nil {
		return false
	}
	_, ok := p.DislikedIDs[id]
	return ok
}

// IsAnchor 判断 id 是否为锚点。
func (p *TasteProfile) IsAnchor(id int64) bool {
	if p == nil {
		return false
	}
	_, ok := p.AnchorIDs[id]
	return ok
}

// DislikedList 返回排序后的不喜欢 id 列表，保证遍历顺序确定。
func (p *TasteProfile) DislikedList() []int64 {
	if p == nil || len(p.DislikedIDs) == 0 {
		return nil
	}
	out := make([]int64, 0, len(p.DislikedIDs))
	for id := range p.DislikedIDs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
