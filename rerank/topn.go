// Package rerank 提供排序后的重排节点：Top-N 截断与类型多样性控制。
package rerank

import (
	"context"

	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/pipeline"
)

// TopNNode 是 Top-N 截断节点，在排序之后截取前 N 个候选。
type TopNNode struct {
	// N 要保留的候选数量。N <= 0 或候选不足 N 个时不截断。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
