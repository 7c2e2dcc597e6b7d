package similarity

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/seriesarchitect/seriesrec/config"
	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/feature"
)

type fakeCatalog struct {
	series   map[int64]*core.Series
	genres   map[int64][]int64
	keywords map[int64][]int64
}

func (c *fakeCatalog) GetSeries(_ context.Context, id int64) (*core.Series, error) {
	return c.series[id], nil
}

func (c *fakeCatalog) GetGenreIDs(_ context.Context, id int64) ([]int64, error) {
	return c.genres[id], nil
}

func (c *fakeCatalog) GetKeywordIDs(_ context.Context, id int64, limit int) ([]int64, error) {
	ids := c.keywords[id]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func date(year, month, day int) *time.Time {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestEngine(t *testing.T, catalog *fakeCatalog, weights config.Weights) *Engine {
	t.Helper()
	cfg := config.Default()
	if weights != nil {
		cfg.Weights = weights
	}
	eng, err := NewEngine(feature.NewStore(catalog), cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return eng
}

func fullCatalog() *fakeCatalog {
	return &fakeCatalog{
		series: map[int64]*core.Series{
			1: {
				ID: 1, Popularity: 100, OriginCountry: "US",
				FirstAirDate: date(2008, 1, 20), Seasons: 5,
				ContentRating: core.RatingTVMA,
			},
			2: {
				ID: 2, Popularity: 80, OriginCountry: "US",
				FirstAirDate: date(2010, 6, 1), Seasons: 6,
				ContentRating: core.RatingTVMA,
			},
		},
		genres: map[int64][]int64{
			1: {18, 80},
			2: {18},
		},
		keywords: map[int64][]int64{
			1: {1, 2, 3},
			2: {2, 3, 4},
		},
	}
}

func TestSimilaritySelfIsOne(t *testing.T) {
	eng := newTestEngine(t, fullCatalog(), nil)

	got, err := eng.Similarity(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Similarity: %v", err)
	}
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("self similarity = %v, want 1.0", got)
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	eng := newTestEngine(t, fullCatalog(), nil)
	ctx := context.Background()

	ab, err := eng.Similarity(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Similarity(1,2): %v", err)
	}
	ba, err := eng.Similarity(ctx, 2, 1)
	if err != nil {
		t.Fatalf("Similarity(2,1): %v", err)
	}
	// 对称性要求逐位相等：累加顺序固定后不存在浮点误差的借口
	if ab != ba {
		t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
	}
	if ab < 0 || ab > 1 {
		t.Errorf("similarity out of [0,1]: %v", ab)
	}
}

// 同一对剧集反复打分必须返回逐位相同的值，排名才可复现。
func TestSimilarityDeterministic(t *testing.T) {
	catalog := fullCatalog()
	catalog.series[3] = &core.Series{
		ID: 3, Popularity: 55, OriginCountry: "GB",
		FirstAirDate: date(2015, 4, 12), Seasons: 2,
		ContentRating: core.RatingTV14,
	}
	catalog.genres[3] = []int64{18, 9648}
	catalog.keywords[3] = []int64{3, 4, 5}

	eng := newTestEngine(t, catalog, nil)
	ctx := context.Background()

	ids := []int64{1, 2, 3}
	for _, a := range ids {
		for _, b := range ids {
			first, err := eng.Similarity(ctx, a, b)
			if err != nil {
				t.Fatalf("Similarity(%d,%d): %v", a, b, err)
			}
			for i := 0; i < 10; i++ {
				again, err := eng.Similarity(ctx, a, b)
				if err != nil {
					t.Fatalf("Similarity(%d,%d): %v", a, b, err)
				}
				if again != first {
					t.Fatalf("Similarity(%d,%d) unstable: %v vs %v", a, b, first, again)
				}
			}
			reversed, err := eng.Similarity(ctx, b, a)
			if err != nil {
				t.Fatalf("Similarity(%d,%d): %v", b, a, err)
			}
			if reversed != first {
				t.Fatalf("Similarity(%d,%d)=%v differs from Similarity(%d,%d)=%v",
					a, b, first, b, a, reversed)
			}
		}
	}
}

func TestSimilarityMissingRecordIsZero(t *testing.T) {
	eng := newTestEngine(t, fullCatalog(), nil)

	got, err := eng.Similarity(context.Background(), 1, 999)
	if err != nil {
		t.Fatalf("Similarity: %v", err)
	}
	if got != 0 {
		t.Errorf("similarity with missing record = %v, want 0", got)
	}
}

// 每个用例把全部权重压在单个特征上，验证该特征的成对得分与缺失语义。
func TestSimilarityComponents(t *testing.T) {
	tests := []struct {
		name    string
		weights config.Weights
		a, b    *core.Series
		genres  map[int64][]int64
		want    float64
	}{
		{
			name:    "identical genres",
			weights: config.Weights{config.FeatureGenres: 1},
			a:       &core.Series{ID: 1},
			b:       &core.Series{ID: 2},
			genres:  map[int64][]int64{1: {18, 80}, 2: {18, 80}},
			want:    1,
		},
		{
			name:    "disjoint genres",
			weights: config.Weights{config.FeatureGenres: 1},
			a:       &core.Series{ID: 1},
			b:       &core.Series{ID: 2},
			genres:  map[int64][]int64{1: {18}, 2: {35}},
			want:    0,
		},
		{
			name:    "one side has no genres",
			weights: config.Weights{config.FeatureGenres: 1},
			a:       &core.Series{ID: 1},
			b:       &core.Series{ID: 2},
			genres:  map[int64][]int64{1: {18}},
			want:    0,
		},
		{
			name:    "year five apart decays linearly",
			weights: config.Weights{config.FeatureYearProximity: 1},
			a:       &core.Series{ID: 1, FirstAirDate: date(2000, 1, 1)},
			b:       &core.Series{ID: 2, FirstAirDate: date(2005, 1, 1)},
			want:    0.5,
		},
		{
			name:    "missing air date scores zero",
			weights: config.Weights{config.FeatureYearProximity: 1},
			a:       &core.Series{ID: 1, FirstAirDate: date(2000, 1, 1)},
			b:       &core.Series{ID: 2},
			want:    0,
		},
		{
			name:    "same known country matches",
			weights: config.Weights{config.FeatureOriginCountry: 1},
			a:       &core.Series{ID: 1, OriginCountry: "US"},
			b:       &core.Series{ID: 2, OriginCountry: "US"},
			want:    1,
		},
		{
			name:    "unknown country never matches",
			weights: config.Weights{config.FeatureOriginCountry: 1},
			a:       &core.Series{ID: 1, OriginCountry: core.UnknownCountry},
			b:       &core.Series{ID: 2, OriginCountry: core.UnknownCountry},
			want:    0,
		},
		{
			name:    "zero popularity scores zero",
			weights: config.Weights{config.FeaturePopularity: 1},
			a:       &core.Series{ID: 1, Popularity: 0},
			b:       &core.Series{ID: 2, Popularity: 50},
			want:    0,
		},
		{
			name:    "equal popularity scores one",
			weights: config.Weights{config.FeaturePopularity: 1},
			a:       &core.Series{ID: 1, Popularity: 42},
			b:       &core.Series{ID: 2, Popularity: 42},
			want:    1,
		},
		{
			name:    "unrated treated as middle of the scale",
			weights: config.Weights{config.FeatureContentRating: 1},
			a:       &core.Series{ID: 1, ContentRating: core.RatingNR},
			b:       &core.Series{ID: 2, ContentRating: core.RatingTVY},
			want:    0.4, // 序数 3 对 0，1 - 3/5
		},
		{
			name:    "adjacent ratings",
			weights: config.Weights{config.FeatureContentRating: 1},
			a:       &core.Series{ID: 1, ContentRating: core.RatingTV14},
			b:       &core.Series{ID: 2, ContentRating: core.RatingTVMA},
			want:    0.8,
		},
		{
			name:    "unknown season count scores zero",
			weights: config.Weights{config.FeatureSeasons: 1},
			a:       &core.Series{ID: 1, Seasons: 0},
			b:       &core.Series{ID: 2, Seasons: 3},
			want:    0,
		},
		{
			name:    "two seasons apart",
			weights: config.Weights{config.FeatureSeasons: 1},
			a:       &core.Series{ID: 1, Seasons: 3},
			b:       &core.Series{ID: 2, Seasons: 5},
			want:    0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{
				series: map[int64]*core.Series{tt.a.ID: tt.a, tt.b.ID: tt.b},
				genres: tt.genres,
			}
			eng := newTestEngine(t, catalog, tt.weights)

			got, err := eng.Similarity(context.Background(), tt.a.ID, tt.b.ID)
			if err != nil {
				t.Fatalf("Similarity: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("similarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEngineRejectsBadWeights(t *testing.T) {
	cfg := config.Default()
	cfg.Weights = config.Weights{"vibes": 1.0}

	_, err := NewEngine(feature.NewStore(fullCatalog()), cfg)
	if !core.IsInvalidConfig(err) {
		t.Fatalf("NewEngine error = %v, want INVALID_CONFIG", err)
	}
}

func TestBatchSkipsSelfAndKeepsOrder(t *testing.T) {
	eng := newTestEngine(t, fullCatalog(), nil)

	scores, err := eng.Batch(context.Background(), 1, []int64{2, 1, 999})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2 (self skipped)", len(scores))
	}
	if scores[0].ID != 2 || scores[1].ID != 999 {
		t.Errorf("order = [%d %d], want [2 999]", scores[0].ID, scores[1].ID)
	}
	if scores[1].Score != 0 {
		t.Errorf("missing record score = %v, want 0", scores[1].Score)
	}
}

func TestMatrixSymmetricWithUnitDiagonal(t *testing.T) {
	eng := newTestEngine(t, fullCatalog(), nil)

	matrix, err := eng.Matrix(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("Matrix: %v", err)
	}
	if matrix[1][1] != 1 || matrix[2][2] != 1 {
		t.Errorf("diagonal = %v / %v, want 1", matrix[1][1], matrix[2][2])
	}
	if matrix[1][2] != matrix[2][1] {
		t.Errorf("matrix not symmetric: %v vs %v", matrix[1][2], matrix[2][1])
	}
}
