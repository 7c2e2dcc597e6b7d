// Package profile 将一次评分请求转换为用户口味画像，
// 并在任何打分开始前校验评分数据是否足以支撑推荐。
package profile

import (
	"fmt"

	"github.com/seriesarchitect/seriesrec/core"
)

// 评分取值。喜欢/不喜欢之外的取值视为中立，不参与画像。
const (
	RatingLike    = 1
	RatingDislike = -1
	RatingNeutral = 0
)

// Rating 是用户对一部剧集的评分输入。
type Rating struct {
	SeriesID int64
	Value    int
	Anchor   bool // 锚点：打分时权重加倍
}

// Build 从评分列表构建口味画像。
//
// 规则：
//   - 喜欢的剧集进入 LikedIDs，锚点额外追加一次（平均时双倍权重）
//   - 不喜欢的剧集进入 DislikedIDs
//   - 中立评分忽略
//
// Build 假定输入已通过 Validate；重复评分在 Validate 阶段被拒绝。
func Build(ratings []Rating) *core.TasteProfile {
	p := core.NewTasteProfile()
	for _, r := range ratings {
		switch r.Value {
		case RatingLike:
			p.LikedIDs = append(p.LikedIDs, r.SeriesID)
			if r.Anchor {
				p.LikedIDs = append(p.LikedIDs, r.SeriesID)
				p.AnchorIDs[r.SeriesID] = struct{}{}
			}
		case RatingDislike:
			p.DislikedIDs[r.SeriesID] = struct{}{}
		}
	}
	return p
}

// Validate 判断评分数据是否足以产生有意义的推荐。
// 不满足时返回 (false, 面向用户的原因)；这是正常业务结果，不是错误。
//
// 同一剧集出现多条评分视为无效输入：无法判断哪条是用户本意。
func Validate(ratings []Rating, minLikes, minTotal int) (bool, string) {
	if len(ratings) == 0 {
		return false, "no ratings provided"
	}

	seen := make(map[int64]struct{}, len(ratings))
	likes, total := 0, 0
	for _, r := range ratings {
		if _, dup := seen[r.SeriesID]; dup {
			return false, fmt.Sprintf("duplicate rating for series %d", r.SeriesID)
		}
		seen[r.SeriesID] = struct{}{}

		switch r.Value {
		case RatingLike:
			likes++
			total++
		case RatingDislike:
			total++
		}
	}

	if likes < minLikes {
		return false, fmt.Sprintf("need at least %d likes (got %d)", minLikes, likes)
	}
	if total < minTotal {
		return false, fmt.Sprintf("need at least %d total ratings (got %d)", minTotal, total)
	}
	return true, ""
}
