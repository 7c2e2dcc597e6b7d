// Package builders 在 init 中注册可从配置构建的内置 Node。
// 使用配置驱动的 Pipeline 时需 import 本包触发注册：
//
//	import _ "github.com/seriesarchitect/seriesrec/config/builders"
//
// 依赖引擎实例的 Node（rank.taste、filter.dislike、召回预筛选等）
// 无法从纯配置构建，需在代码中组装。
package builders

import (
	"fmt"
	"time"

	"github.com/seriesarchitect/seriesrec/config"
	"github.com/seriesarchitect/seriesrec/filter"
	"github.com/seriesarchitect/seriesrec/pipeline"
	"github.com/seriesarchitect/seriesrec/pkg/conv"
	"github.com/seriesarchitect/seriesrec/recall"
	"github.com/seriesarchitect/seriesrec/rerank"
)

func init() {
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("recall.popular", BuildPopularNode)
	config.Register("filter.rule", BuildRuleFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildPopularNode(cfg map[string]any) (pipeline.Node, error) {
	ids := conv.SliceAnyToInt64(cfg["ids"])
	if ids == nil {
		ids = []int64{}
	}
	return &recall.PopularRecall{
		Key:   conv.ConfigGet(cfg, "key", ""),
		Limit: conv.ConfigGetInt(cfg, "limit", 0),
		IDs:   ids,
	}, nil
}

func BuildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "popular":
			ids := conv.SliceAnyToInt64(sourceMap["ids"])
			if ids == nil {
				ids = []int64{}
			}
			sources = append(sources, &recall.PopularRecall{
				Key:   conv.ConfigGet(sourceMap, "key", ""),
				Limit: conv.ConfigGetInt(sourceMap, "limit", 0),
				IDs:   ids,
			})
		case "catalog":
			// 目录预筛选需要特征视图与目录索引，无法从纯配置构建
			return nil, fmt.Errorf("catalog source requires engine wiring")
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = n
	}
	return fanout, nil
}

func BuildRuleFilterNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	// 无特征视图时规则从 item.Meta["series"] 读取剧集属性
	rule, err := filter.NewRuleFilter(expr, nil)
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{rule}}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt(cfg, "n", 0)
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive")
	}
	return &rerank.TopNNode{N: n}, nil
}
