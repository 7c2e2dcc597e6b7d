// Package recommender 将评分校验、画像构建、不喜欢排除、口味排序与
// 结果补全编排为一次完整的推荐请求。
package recommender

import (
	"context"
	"sort"

	"github.com/seriesarchitect/seriesrec/config"
	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/feature"
	"github.com/seriesarchitect/seriesrec/filter"
	"github.com/seriesarchitect/seriesrec/pipeline"
	"github.com/seriesarchitect/seriesrec/profile"
	"github.com/seriesarchitect/seriesrec/rank"
	"github.com/seriesarchitect/seriesrec/recall"
	"github.com/seriesarchitect/seriesrec/rerank"
	"github.com/seriesarchitect/seriesrec/similarity"
)

// Recommendation 是一条补全了展示属性的推荐结果。
type Recommendation struct {
	SeriesID int64
	Score    float64

	// Series 是完整的属性记录（目录中已被删除时为 nil）。
	Series *core.Series

	// Genres 是类型展示名列表（按 genre_id 升序）。
	Genres []string
}

// Result 是一次推荐请求的结果。
// 评分数据不足时 Recommendations 为空、Reason 说明原因；这不是错误。
type Result struct {
	Recommendations []Recommendation
	Reason          string
}

// Engine 是推荐引擎的门面。
// 一个 Engine 对应一个目录；并发请求各自构建画像，打分路径只读共享缓存。
type Engine struct {
	cfg      *config.Config
	catalog  core.Catalog
	features *feature.Store
	sim      *similarity.Engine
	ranker   *rank.Ranker
	dislike  *filter.DislikeFilter
}

// New 创建推荐引擎。cfg 为 nil 时使用默认配置；
// 配置不合法时返回 INVALID_CONFIG 错误（启动期致命）。
func New(catalog core.Catalog, cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	features := feature.NewStore(catalog)
	sim, err := similarity.NewEngine(features, cfg)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:      cfg,
		catalog:  catalog,
		features: features,
		sim:      sim,
		ranker:   rank.NewRanker(sim),
		dislike:  filter.NewDislikeFilter(sim, cfg.DislikeThreshold),
	}, nil
}

// Config 返回引擎配置（只读使用）。
func (e *Engine) Config() *config.Config { return e.cfg }

// Features 返回引擎的特征视图，供外部节点（预筛选/重排）共享缓存。
func (e *Engine) Features() *feature.Store { return e.features }

// ResetCache 清空特征缓存。目录更新后调用，使后续请求读到新数据。
func (e *Engine) ResetCache() { e.features.Reset() }

// Option 是单次请求的可选覆盖。
type Option func(*requestOptions)

type requestOptions struct {
	topN      int
	weights   config.Weights
	threshold *float64
}

// WithTopN 覆盖本次请求返回的推荐数量。
func WithTopN(n int) Option {
	return func(o *requestOptions) { o.topN = n }
}

// WithWeights 覆盖本次请求的特征权重（不影响引擎默认权重）。
// 权重不合法时本次请求返回 INVALID_CONFIG 错误。
func WithWeights(w config.Weights) Option {
	return func(o *requestOptions) { o.weights = w }
}

// WithDislikeThreshold 覆盖本次请求的不喜欢排除阈值。
func WithDislikeThreshold(t float64) Option {
	return func(o *requestOptions) { o.threshold = &t }
}

// Recommend 在给定候选集上执行一次完整推荐：
// 校验评分 → 构建画像 → 不喜欢排除 → 口味排序 → 补全展示属性。
//
// 评分数据不足时返回空结果 + 原因（业务结果，不是 error）；
// 目录读取失败等基础设施问题才返回 error。
func (e *Engine) Recommend(ctx context.Context, ratings []profile.Rating, candidateIDs []int64, opts ...Option) (*Result, error) {
	o := &requestOptions{topN: e.cfg.TopN}
	for _, opt := range opts {
		opt(o)
	}

	ok, reason := profile.Validate(ratings, e.cfg.MinLikes, e.cfg.MinTotalRatings)
	if !ok {
		return &Result{Reason: reason}, nil
	}
	taste := profile.Build(ratings)

	sim := e.sim
	if o.weights != nil {
		override := *e.cfg
		override.Weights = o.weights
		var err error
		sim, err = similarity.NewEngine(e.features, &override)
		if err != nil {
			return nil, err
		}
	}

	if e.cfg.MaxCandidates > 0 && len(candidateIDs) > e.cfg.MaxCandidates {
		candidateIDs = candidateIDs[:e.cfg.MaxCandidates]
	}

	threshold := e.cfg.DislikeThreshold
	if o.threshold != nil {
		threshold = *o.threshold
	}
	dislike := filter.NewDislikeFilter(sim, threshold)
	excluded, err := dislike.Exclude(ctx, taste.DislikedList(), candidateIDs)
	if err != nil {
		return nil, err
	}

	remaining := make([]int64, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if _, gone := excluded[id]; !gone {
			remaining = append(remaining, id)
		}
	}

	ranker := rank.NewRanker(sim)
	scores, err := ranker.Rank(ctx, taste, remaining, o.topN)
	if err != nil {
		return nil, err
	}

	recs, err := e.enrich(ctx, scores)
	if err != nil {
		return nil, err
	}
	return &Result{Recommendations: recs}, nil
}

// RecommendFromCatalog 先按 Criteria 预筛选全量目录生成候选集，再推荐。
// 目录不支持全量遍历时返回 NOT_SUPPORTED 错误。
func (e *Engine) RecommendFromCatalog(ctx context.Context, ratings []profile.Rating, criteria recall.Criteria, opts ...Option) (*Result, error) {
	index, ok := e.catalog.(recall.CatalogIndex)
	if !ok {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotSupported,
			"recommender: catalog does not support full scans")
	}

	src := &recall.CatalogRecall{
		Features:      e.features,
		Index:         index,
		Criteria:      criteria,
		MaxCandidates: e.cfg.MaxCandidates,
	}
	items, err := src.Recall(ctx, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return e.Recommend(ctx, ratings, ids, opts...)
}

// MostSimilar 返回与指定剧集最相似的 topN 个候选（“更多类似”场景，
// 不依赖评分画像）。候选中的自身被跳过。
func (e *Engine) MostSimilar(ctx context.Context, id int64, candidateIDs []int64, topN int) ([]similarity.Score, error) {
	scores, err := e.sim.Batch(ctx, id, candidateIDs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	if topN > 0 && len(scores) > topN {
		scores = scores[:topN]
	}
	return scores, nil
}

// enrich 为打分结果补全属性记录与类型展示名。
func (e *Engine) enrich(ctx context.Context, scores []similarity.Score) ([]Recommendation, error) {
	recs := make([]Recommendation, 0, len(scores))
	for _, s := range scores {
		rec := Recommendation{SeriesID: s.ID, Score: s.Score}

		series, err := e.features.Series(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		rec.Series = series

		genreSet, err := e.features.GenreSet(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		if len(genreSet) > 0 {
			ids := make([]int64, 0, len(genreSet))
			for gid := range genreSet {
				ids = append(ids, gid)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			rec.Genres = make([]string, 0, len(ids))
			for _, gid := range ids {
				rec.Genres = append(rec.Genres, feature.GenreName(gid))
			}
		}

		recs = append(recs, rec)
	}
	return recs, nil
}

// BuildPipeline 以 Pipeline 形态组装同一条推荐链路：
// 召回 → 过滤（不喜欢排除 + 额外过滤器）→ 口味排序 → Top-N 截断。
// 适合需要自定义节点编排（多路召回、规则过滤、多样性重排）的调用方。
func (e *Engine) BuildPipeline(src recall.Source, extra ...filter.Filter) *pipeline.Pipeline {
	filters := append([]filter.Filter{e.dislike}, extra...)
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.Fanout{Sources: []recall.Source{src}, Dedup: true},
			&filter.FilterNode{Filters: filters},
			&rank.TasteNode{Ranker: e.ranker},
			&rerank.TopNNode{N: e.cfg.TopN},
		},
	}
}
