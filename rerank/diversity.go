package rerank

import (
	"context"
	"sort"

	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/feature"
	"github.com/seriesarchitect/seriesrec/pipeline"
)

// GenreDiversity 是类型多样性重排节点：限制同一主类型在结果中的出现次数，
// 避免榜单被单一类型刷屏。主类型取剧集类型集合中 id 最小的一个。
//
// 没有类型数据的候选不受限制直接放行。
type GenreDiversity struct {
	Features *feature.Store

	// MaxPerGenre 同一主类型最多保留的候选数，<= 0 时默认 3。
	MaxPerGenre int
}

func (n *GenreDiversity) Name() string {
	return "rerank.genre_diversity"
}

func (n *GenreDiversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *GenreDiversity) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	max := n.MaxPerGenre
	if max <= 0 {
		max = 3
	}

	counts := make(map[int64]int, 16)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		genre, ok, err := n.primaryGenre(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			out = append(out, it)
			continue
		}
		if counts[genre] >= max {
			continue
		}
		counts[genre]++
		out = append(out, it)
	}

	return out, nil
}

func (n *GenreDiversity) primaryGenre(ctx context.Context, id int64) (int64, bool, error) {
	set, err := n.Features.GenreSet(ctx, id)
	if err != nil {
		return 0, false, err
	}
	if len(set) == 0 {
		return 0, false, nil
	}
	ids := make([]int64, 0, len(set))
	for gid := range set {
		ids = append(ids, gid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0], true, nil
}

var _ pipeline.Node = (*GenreDiversity)(nil)
