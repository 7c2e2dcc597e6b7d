package recall

import (
	"context"

	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/feature"
	"github.com/seriesarchitect/seriesrec/pipeline"
)

// CatalogIndex 提供全量目录的 id 遍历（feature.StoreCatalog 实现）。
type CatalogIndex interface {
	AllIDs(ctx context.Context) ([]int64, error)
}

// Criteria 是目录预筛选条件。各条件组之间取 AND，组内取 OR；
// 空条件组不参与筛选（全部放行）。
type Criteria struct {
	// Languages 是原始语言白名单（ISO 639-1 代码）。
	Languages []string

	// Statuses 是播出状态白名单。
	Statuses []core.Status

	// Decades 是年代白名单（如 1990、2000）。剧集只要在该年代内
	// 开播、完结或持续播出即视为命中。
	Decades []int

	// Genres 是主类别白名单（如 "Drama"），展开为类别下全部 genre_id。
	Genres []string

	// GenreIDs 是额外的 genre_id 白名单，与 Genres 展开结果合并。
	GenreIDs []int64
}

// genreIDSet 合并类别展开与显式 id，空条件返回 nil。
func (c *Criteria) genreIDSet() map[int64]struct{} {
	if len(c.Genres) == 0 && len(c.GenreIDs) == 0 {
		return nil
	}
	set := make(map[int64]struct{})
	for _, category := range c.Genres {
		for _, id := range feature.CategoryGenreIDs(category) {
			set[id] = struct{}{}
		}
	}
	for _, id := range c.GenreIDs {
		set[id] = struct{}{}
	}
	return set
}

// CatalogRecall 扫描全量目录并按 Criteria 预筛选，生成候选集。
// 同时实现 Source 和 Node 接口，可直接在 Pipeline 中使用。
type CatalogRecall struct {
	Features *feature.Store
	Index    CatalogIndex
	Criteria Criteria

	// MaxCandidates 是候选集安全上限，0 表示不限制。
	MaxCandidates int
}

func (r *CatalogRecall) Name() string        { return "recall.catalog" }
func (r *CatalogRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *CatalogRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *CatalogRecall) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	ids, err := r.Index.AllIDs(ctx)
	if err != nil {
		return nil, err
	}

	wantGenres := r.Criteria.genreIDSet()

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		ok, err := r.match(ctx, id, wantGenres)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, core.NewItem(id))
		if r.MaxCandidates > 0 && len(out) >= r.MaxCandidates {
			break
		}
	}
	return out, nil
}

func (r *CatalogRecall) match(ctx context.Context, id int64, wantGenres map[int64]struct{}) (bool, error) {
	s, err := r.Features.Series(ctx, id)
	if err != nil {
		return false, err
	}
	if s == nil {
		return false, nil
	}

	if len(r.Criteria.Languages) > 0 && !containsString(r.Criteria.Languages, s.OriginalLanguage) {
		return false, nil
	}
	if len(r.Criteria.Statuses) > 0 && !containsStatus(r.Criteria.Statuses, s.Status) {
		return false, nil
	}
	if len(r.Criteria.Decades) > 0 && !matchAnyDecade(s, r.Criteria.Decades) {
		return false, nil
	}

	if wantGenres != nil {
		genres, err := r.Features.GenreSet(ctx, id)
		if err != nil {
			return false, err
		}
		hit := false
		for gid := range genres {
			if _, ok := wantGenres[gid]; ok {
				hit = true
				break
			}
		}
		if !hit {
			return false, nil
		}
	}
	return true, nil
}

// matchAnyDecade 判断剧集是否命中任一年代：在该年代内开播、完结，
// 或开播于年代结束前且届时仍在播（未完结视为持续至今）。
func matchAnyDecade(s *core.Series, decades []int) bool {
	firstYear, ok := s.FirstAirYear()
	if !ok {
		return false
	}
	lastYear := -1
	if s.LastAirDate != nil {
		lastYear = s.LastAirDate.Year()
	}

	for _, decade := range decades {
		if firstYear >= decade && firstYear < decade+10 {
			return true
		}
		if lastYear >= decade && lastYear < decade+10 {
			return true
		}
		if firstYear < decade+10 && (lastYear < 0 || lastYear >= decade) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsStatus(list []core.Status, v core.Status) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

var (
	_ Source        = (*CatalogRecall)(nil)
	_ pipeline.Node = (*CatalogRecall)(nil)
)
