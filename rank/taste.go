// Package rank 基于用户口味画像对候选打分排序：
// 候选得分 = 与喜欢多重集中每部剧集相似度的算术平均（锚点出现两次，权重天然加倍）。
package rank

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/pipeline"
	"github.com/seriesarchitect/seriesrec/pkg/utils"
	"github.com/seriesarchitect/seriesrec/similarity"
)

// Scorer 是打分所需的最小相似度接口（similarity.Engine 满足）。
type Scorer interface {
	Similarity(ctx context.Context, a, b int64) (float64, error)
}

// Ranker 计算候选对用户口味的匹配分并排序。
type Ranker struct {
	Sim Scorer
}

func NewRanker(sim Scorer) *Ranker {
	return &Ranker{Sim: sim}
}

// Rank 对候选打分并按分数降序排列，topN > 0 时截断。
//
// 规则：
//   - 喜欢多重集为空时返回空结果（没有口味依据）
//   - 已喜欢的候选不参与打分（推荐已看过的剧集没有意义）
//   - 排序稳定：同分候选保持输入顺序
func (r *Ranker) Rank(ctx context.Context, taste *core.TasteProfile, candidateIDs []int64, topN int) ([]similarity.Score, error) {
	if taste == nil || len(taste.LikedIDs) == 0 || len(candidateIDs) == 0 {
		return nil, nil
	}

	scores := make([]float64, len(candidateIDs))
	keep := make([]bool, len(candidateIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, cid := range candidateIDs {
		if taste.HasLiked(cid) {
			continue
		}
		i, cid := i, cid
		g.Go(func() error {
			s, err := r.scoreOne(gctx, taste, cid)
			if err != nil {
				return err
			}
			scores[i] = s
			keep[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]similarity.Score, 0, len(candidateIDs))
	for i, cid := range candidateIDs {
		if keep[i] {
			out = append(out, similarity.Score{ID: cid, Score: scores[i]})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// scoreOne 对单个候选求喜欢多重集上的平均相似度。
// 锚点在多重集中出现两次，平均时自动获得双倍权重。
func (r *Ranker) scoreOne(ctx context.Context, taste *core.TasteProfile, candidate int64) (float64, error) {
	var sum float64
	for _, liked := range taste.LikedIDs {
		s, err := r.Sim.Similarity(ctx, candidate, liked)
		if err != nil {
			return 0, err
		}
		sum += s
	}
	return sum / float64(len(taste.LikedIDs)), nil
}

// TasteNode 是排序 Node：从请求画像读取口味，为每个候选写入 Score 并排序。
// 不做截断，截断交给 rerank.TopNNode。
type TasteNode struct {
	Ranker *Ranker
}

func (n *TasteNode) Name() string        { return "rank.taste" }
func (n *TasteNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *TasteNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil || rctx.Taste == nil || len(rctx.Taste.LikedIDs) == 0 || len(items) == 0 {
		return nil, nil
	}

	byID := make(map[int64]*core.Item, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		byID[it.ID] = it
		ids = append(ids, it.ID)
	}

	scores, err := n.Ranker.Rank(ctx, rctx.Taste, ids, 0)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		it := byID[s.ID]
		it.Score = s.Score
		it.PutLabel("rank_source", utils.Label{Value: "taste", Source: "rank"})
		out = append(out, it)
	}
	return out, nil
}

var _ pipeline.Node = (*TasteNode)(nil)
