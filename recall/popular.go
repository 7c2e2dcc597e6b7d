package recall

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/pipeline"
	"github.com/seriesarchitect/seriesrec/store"
)

// PopularRecall 是热度榜召回源，从 Store 读取按 popularity 排序的剧集。
//   - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（有序集合，按分数排序）
//   - 否则从普通 key 读取 JSON 数组
//   - 如果 Store 为空，使用内存中的 IDs 作为 fallback
//
// PopularRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type PopularRecall struct {
	Store store.Store
	Key   string  // 存储 key，例如 "series:popular"
	Limit int     // 取榜单前 N 个，0 使用默认 100
	IDs   []int64 // fallback 内存列表
}

func (r *PopularRecall) Name() string        { return "recall.popular" }
func (r *PopularRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *PopularRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *PopularRecall) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	limit := r.Limit
	if limit <= 0 {
		limit = 100
	}

	var ids []int64

	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(store.KeyValueStore); ok {
			members, err := kvStore.ZRange(ctx, r.Key, 0, int64(limit)-1)
			if err == nil && len(members) > 0 {
				ids = make([]int64, 0, len(members))
				for _, m := range members {
					if id, err := strconv.ParseInt(m, 10, 64); err == nil {
						ids = append(ids, id)
					}
				}
			}
		} else {
			// 普通 key：读取 JSON 数组
			data, err := r.Store.Get(ctx, r.Key)
			if err == nil {
				var parsed []int64
				if json.Unmarshal(data, &parsed) == nil {
					ids = parsed
				}
			}
		}
	}

	// Fallback：使用内存 IDs
	if len(ids) == 0 {
		ids = r.IDs
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out, nil
}

var (
	_ Source        = (*PopularRecall)(nil)
	_ pipeline.Node = (*PopularRecall)(nil)
)
