package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/seriesarchitect/seriesrec/core"
)

// Scorer 是不喜欢排除所需的最小相似度接口（similarity.Engine 满足）。
type Scorer interface {
	Similarity(ctx context.Context, a, b int64) (float64, error)
}

// DislikeFilter 实现否决式排除：候选与任一不喜欢剧集的相似度达到
// 阈值即被排除，与该候选和喜欢剧集多相似无关。
//
// 不喜欢的剧集本身出现在候选中时同样被排除（自相似恒为 1，必然达到阈值）。
type DislikeFilter struct {
	Sim       Scorer
	Threshold float64
}

func NewDislikeFilter(sim Scorer, threshold float64) *DislikeFilter {
	return &DislikeFilter{Sim: sim, Threshold: threshold}
}

func (f *DislikeFilter) Name() string {
	return "filter.dislike"
}

// Exclude 并发计算每个候选是否被否决，返回被排除的候选集合。
// 不喜欢列表为空时返回空集合，不做任何比较。
func (f *DislikeFilter) Exclude(ctx context.Context, dislikedIDs, candidateIDs []int64) (map[int64]struct{}, error) {
	excluded := make(map[int64]struct{}, len(candidateIDs))
	if len(dislikedIDs) == 0 || len(candidateIDs) == 0 {
		return excluded, nil
	}

	vetoed := make([]bool, len(candidateIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, cid := range candidateIDs {
		i, cid := i, cid
		g.Go(func() error {
			v, err := f.vetoed(gctx, cid, dislikedIDs)
			if err != nil {
				return err
			}
			vetoed[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, cid := range candidateIDs {
		if vetoed[i] {
			excluded[cid] = struct{}{}
		}
	}
	return excluded, nil
}

// vetoed 逐个比较不喜欢剧集，命中阈值即短路返回。
func (f *DislikeFilter) vetoed(ctx context.Context, candidate int64, dislikedIDs []int64) (bool, error) {
	for _, did := range dislikedIDs {
		if candidate == did {
			return true, nil
		}
		s, err := f.Sim.Similarity(ctx, candidate, did)
		if err != nil {
			return false, err
		}
		if s >= f.Threshold {
			return true, nil
		}
	}
	return false, nil
}

// ShouldFilter 使 DislikeFilter 可直接挂入 FilterNode：
// 从请求画像读取不喜欢列表，逐条判断候选。
func (f *DislikeFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.Taste == nil || len(rctx.Taste.DislikedIDs) == 0 {
		return false, nil
	}
	return f.vetoed(ctx, item.ID, rctx.Taste.DislikedList())
}

var _ Filter = (*DislikeFilter)(nil)
