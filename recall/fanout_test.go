package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/seriesarchitect/seriesrec/core"
)

type staticSource struct {
	name string
	ids  []int64
	err  error
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, core.NewItem(id))
	}
	return out, nil
}

func TestFanoutMergesInSourceOrder(t *testing.T) {
	f := &Fanout{
		Sources: []Source{
			&staticSource{name: "first", ids: []int64{1, 2}},
			&staticSource{name: "second", ids: []int64{2, 3}},
		},
		Dedup: true,
	}

	out, err := f.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := []int64{1, 2, 3}
	if len(out) != len(want) {
		t.Fatalf("out = %v, want ids %v", out, want)
	}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("out[%d] = %d, want %d", i, out[i].ID, id)
		}
	}

	// 先出现的来源持有重复 id，后来者的来源标签并入
	if lbl, ok := out[1].Labels["recall_source"]; !ok || lbl.Value != "first|second" {
		t.Errorf("recall_source = %v, want merged first|second", out[1].Labels)
	}
}

func TestFanoutIgnoresFailedSource(t *testing.T) {
	f := &Fanout{
		Sources: []Source{
			&staticSource{name: "bad", err: errors.New("boom")},
			&staticSource{name: "good", ids: []int64{7}},
		},
	}

	out, err := f.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != 7 {
		t.Fatalf("out = %v, want only the healthy source", out)
	}
}
