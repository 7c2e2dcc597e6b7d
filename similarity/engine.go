// Package similarity 实现剧集之间的内容相似度计算：
// 各特征的成对相似度 + 按权重聚合的总分，以及并发的批量打分。
package similarity

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/seriesarchitect/seriesrec/config"
	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/feature"
)

// Score 是一个候选的打分结果。
type Score struct {
	ID    int64
	Score float64
}

// Engine 计算两部剧集的加权内容相似度。
//
// 约定：
//   - 权重在构造时校验（未知 key / 总和偏离 1.0 均为致命配置错误），
//     打分路径上不再重复校验。
//   - 不在权重 map 中的特征不参与计算；权重 0 参与但贡献 0。
//   - 任一方记录缺失时总分为 0，不报错。
//   - 打分过程中特征视图只读，可并发调用。
type Engine struct {
	features *feature.Store

	weights        config.Weights
	topKeywords    int
	yearDiffMax    int
	seasonsDiffMax int
}

// NewEngine 创建相似度引擎。cfg 为 nil 时使用默认配置。
// 权重不合法时返回 INVALID_CONFIG 错误。
func NewEngine(features *feature.Store, cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		features:       features,
		weights:        cfg.Weights.Clone(),
		topKeywords:    cfg.TopKeywords,
		yearDiffMax:    cfg.YearDiffMax,
		seasonsDiffMax: cfg.SeasonsDiffMax,
	}, nil
}

// Features 返回引擎使用的特征视图（供预筛选/重排等组件共享缓存）。
func (e *Engine) Features() *feature.Store { return e.features }

// Similarity 计算两部剧集的加权总相似度，结果在 [0,1]。
// 同一 id 与自身比较恒为 1（记录存在时）。
func (e *Engine) Similarity(ctx context.Context, a, b int64) (float64, error) {
	sa, err := e.features.Series(ctx, a)
	if err != nil {
		return 0, err
	}
	sb, err := e.features.Series(ctx, b)
	if err != nil {
		return 0, err
	}
	if sa == nil || sb == nil {
		return 0, nil
	}

	// 按固定顺序累加而非遍历 map：浮点求和顺序确定后，
	// 同一对剧集的两次打分逐位相等，Similarity(a,b) == Similarity(b,a)。
	var total float64
	for _, key := range config.FeatureKeys {
		weight, ok := e.weights[key]
		if !ok {
			continue
		}
		component, err := e.component(ctx, key, sa, sb)
		if err != nil {
			return 0, err
		}
		total += weight * component
	}
	return total, nil
}

func (e *Engine) component(ctx context.Context, key string, a, b *core.Series) (float64, error) {
	switch key {
	case config.FeatureGenres:
		ga, err := e.features.GenreSet(ctx, a.ID)
		if err != nil {
			return 0, err
		}
		gb, err := e.features.GenreSet(ctx, b.ID)
		if err != nil {
			return 0, err
		}
		return jaccard(ga, gb), nil

	case config.FeatureKeywords:
		ka, err := e.features.KeywordSet(ctx, a.ID, e.topKeywords)
		if err != nil {
			return 0, err
		}
		kb, err := e.features.KeywordSet(ctx, b.ID, e.topKeywords)
		if err != nil {
			return 0, err
		}
		return jaccard(ka, kb), nil

	case config.FeatureYearProximity:
		return yearProximity(a, b, e.yearDiffMax), nil

	case config.FeatureOriginCountry:
		return countryMatch(a, b), nil

	case config.FeaturePopularity:
		return popularitySimilarity(a, b), nil

	case config.FeatureContentRating:
		return contentRatingSimilarity(a, b), nil

	case config.FeatureSeasons:
		return seasonsSimilarity(a, b, e.seasonsDiffMax), nil

	default:
		// Weights.Validate 已拒绝未知 key，此处属于内部不一致
		return 0, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternalError,
			fmt.Sprintf("similarity: unhandled feature %q", key))
	}
}

// Batch 并发计算 ref 与每个候选的相似度，保持候选的输入顺序。
// ref 自身出现在候选中时被跳过（自比较无意义）。
func (e *Engine) Batch(ctx context.Context, ref int64, candidates []int64) ([]Score, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	scores := make([]float64, len(candidates))
	keep := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range candidates {
		if id == ref {
			continue
		}
		i, id := i, id
		g.Go(func() error {
			s, err := e.Similarity(gctx, ref, id)
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

	out := make([]Score, 0, len(candidates))
	for i, id := range candidates {
		if keep[i] {
			out = append(out, Score{ID: id, Score: scores[i]})
		}
	}
	return out, nil
}

// Matrix 计算一组剧集两两之间的相似度矩阵。
// 相似度对称，只计算上三角后镜像；对角线恒为 1。
func (e *Engine) Matrix(ctx context.Context, ids []int64) (map[int64]map[int64]float64, error) {
	matrix := make(map[int64]map[int64]float64, len(ids))
	for _, id := range ids {
		matrix[id] = make(map[int64]float64, len(ids))
		matrix[id][id] = 1
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			s, err := e.Similarity(ctx, ids[i], ids[j])
			if err != nil {
				return nil, err
			}
			matrix[ids[i]][ids[j]] = s
			matrix[ids[j]][ids[i]] = s
		}
	}
	return matrix, nil
}
