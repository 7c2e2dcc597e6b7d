package rank

import (
	"context"
	"math"
	"testing"

	"github.com/seriesarchitect/seriesrec/core"
	"github.com/seriesarchitect/seriesrec/profile"
)

// stubScorer 按无序对返回固定相似度，未登记的对返回 0。
type stubScorer struct {
	sims map[[2]int64]float64
}

func (s *stubScorer) Similarity(_ context.Context, a, b int64) (float64, error) {
	if a > b {
		a, b = b, a
	}
	return s.sims[[2]int64{a, b}], nil
}

func TestRankEmptyLikes(t *testing.T) {
	r := NewRanker(&stubScorer{})

	scores, err := r.Rank(context.Background(), core.NewTasteProfile(), []int64{1, 2}, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("scores = %v, want empty without likes", scores)
	}
}

func TestRankNeverReturnsLiked(t *testing.T) {
	scorer := &stubScorer{sims: map[[2]int64]float64{
		{1, 100}: 0.9,
	}}
	r := NewRanker(scorer)

	taste := profile.Build([]profile.Rating{
		{SeriesID: 1, Value: profile.RatingLike},
	})

	scores, err := r.Rank(context.Background(), taste, []int64{1, 100}, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(scores) != 1 || scores[0].ID != 100 {
		t.Fatalf("scores = %v, want only candidate 100", scores)
	}
}

func TestRankAnchorDoublesWeight(t *testing.T) {
	// 候选 X=100 对锚点 A=1 相似 0.9，对 B=2 相似 0.1。
	// 多重集 [A A B] 的平均 = (0.9 + 0.9 + 0.1) / 3。
	scorer := &stubScorer{sims: map[[2]int64]float64{
		{1, 100}: 0.9,
		{2, 100}: 0.1,
	}}
	r := NewRanker(scorer)

	taste := profile.Build([]profile.Rating{
		{SeriesID: 1, Value: profile.RatingLike, Anchor: true},
		{SeriesID: 2, Value: profile.RatingLike},
	})

	scores, err := r.Rank(context.Background(), taste, []int64{100}, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	want := (0.9 + 0.9 + 0.1) / 3
	if math.Abs(scores[0].Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", scores[0].Score, want)
	}
}

func TestRankSortsDescendingAndTruncates(t *testing.T) {
	scorer := &stubScorer{sims: map[[2]int64]float64{
		{1, 100}: 0.2,
		{1, 101}: 0.8,
		{1, 102}: 0.5,
	}}
	r := NewRanker(scorer)

	taste := profile.Build([]profile.Rating{
		{SeriesID: 1, Value: profile.RatingLike},
	})

	scores, err := r.Rank(context.Background(), taste, []int64{100, 101, 102}, 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2 after truncation", len(scores))
	}
	if scores[0].ID != 101 || scores[1].ID != 102 {
		t.Errorf("order = [%d %d], want [101 102]", scores[0].ID, scores[1].ID)
	}
}

func TestRankStableOnTies(t *testing.T) {
	scorer := &stubScorer{sims: map[[2]int64]float64{
		{1, 100}: 0.5,
		{1, 101}: 0.5,
		{1, 102}: 0.5,
	}}
	r := NewRanker(scorer)

	taste := profile.Build([]profile.Rating{
		{SeriesID: 1, Value: profile.RatingLike},
	})

	scores, err := r.Rank(context.Background(), taste, []int64{102, 100, 101}, 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	want := []int64{102, 100, 101}
	for i, id := range want {
		if scores[i].ID != id {
			t.Fatalf("tie order changed: got %v, want %v", scores, want)
		}
	}
}

func TestTasteNodeScoresItems(t *testing.T) {
	scorer := &stubScorer{sims: map[[2]int64]float64{
		{1, 100}: 0.3,
		{1, 101}: 0.7,
	}}
	node := &TasteNode{Ranker: NewRanker(scorer)}

	taste := profile.Build([]profile.Rating{
		{SeriesID: 1, Value: profile.RatingLike},
	})
	rctx := &core.RecommendContext{Taste: taste}
	items := []*core.Item{core.NewItem(100), core.NewItem(101)}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 || out[0].ID != 101 || out[1].ID != 100 {
		t.Fatalf("out = %v, want [101 100]", out)
	}
	if out[0].Score != 0.7 {
		t.Errorf("top score = %v, want 0.7", out[0].Score)
	}
	if lbl, ok := out[0].Labels["rank_source"]; !ok || lbl.Value != "taste" {
		t.Errorf("rank_source label missing or wrong: %v", out[0].Labels)
	}
}
