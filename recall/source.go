// Package recall 提供候选集生成：目录预筛选、热度榜召回与并发 fan-out 合并。
package recall

import (
	"context"

	"github.com/seriesarchitect/seriesrec/core"
)

// Source 表示一个可复用的召回源（目录预筛选/热度榜/...）。
// 可并发 fan-out 的策略单元。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
