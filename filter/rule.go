package filter

import (
	"context"

	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/feature"
	"github.com/seriesarchitect/seriesrec/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的规则过滤器。
// 表达式求值为 true 表示候选被过滤。
//
// 表达式可引用三个变量：
//   - series：剧集属性（id / status / origin_country / popularity 等）
//   - item：  候选（score）
//   - label： 候选标签（key -> value）
//
// 示例：
//   - series.status == "Running"（排除未完结剧集）
//   - series.adult（排除成人内容）
//   - series.popularity < 1.0 && item.score < 0.3
type RuleFilter struct {
	program  *dsl.Program
	features *feature.Store
}

// NewRuleFilter 编译表达式并创建规则过滤器。
// features 为 nil 时，剧集属性从 item.Meta["series"] 读取。
// 表达式编译失败属于配置错误，在装配阶段返回。
func NewRuleFilter(expr string, features *feature.Store) (*RuleFilter, error) {
	program, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{program: program, features: features}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	seriesVars, err := f.seriesVars(ctx, item)
	if err != nil {
		return false, err
	}

	labelVars := make(map[string]string, len(item.Labels))
	for k, lbl := range item.Labels {
		labelVars[k] = lbl.Value
	}

	return f.program.Eval(map[string]any{
		"series": seriesVars,
		"item":   map[string]any{"id": item.ID, "score": item.Score},
		"label":  labelVars,
	})
}

func (f *RuleFilter) seriesVars(ctx context.Context, item *core.Item) (map[string]any, error) {
	var s *core.Series
	if f.features != nil {
		rec, err := f.features.Series(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		s = rec
	} else if meta, ok := item.Meta["series"].(*core.Series); ok {
		s = meta
	}
	if s == nil {
		return map[string]any{}, nil
	}

	vars := map[string]any{
		"id":                s.ID,
		"status":            string(s.Status),
		"origin_country":    s.OriginCountry,
		"original_language": s.OriginalLanguage,
		"popularity":        s.Popularity,
		"number_of_seasons": s.Seasons,
		"adult":             s.Adult,
		"content_rating":    s.ContentRating,
	}
	if year, ok := s.FirstAirYear(); ok {
		vars["first_air_year"] = year
	}
	return vars, nil
}

// Expr 返回过滤规则的表达式文本。
func (f *RuleFilter) Expr() string {
	return f.program.Expr()
}

var _ Filter = (*RuleFilter)(nil)
