package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/seriesarchitect/seriesrec/core"
)

type stubNode struct {
	name string
	kind Kind
	fn   func(items []*core.Item) ([]*core.Item, error)
}

func (n *stubNode) Name() string { return n.name }
func (n *stubNode) Kind() Kind   { return n.kind }
func (n *stubNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipelineRunsNodesInOrder(t *testing.T) {
	var trace []string
	node := func(name string) Node {
		return &stubNode{name: name, kind: KindFilter, fn: func(items []*core.Item) ([]*core.Item, error) {
			trace = append(trace, name)
			return items, nil
		}}
	}

	p := &Pipeline{Nodes: []Node{node("a"), node("b"), node("c")}}
	if _, err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(trace, "") != "abc" {
		t.Errorf("trace = %v, want [a b c]", trace)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "bad", kind: KindRecall, fn: func(items []*core.Item) ([]*core.Item, error) {
			return nil, boom
		}},
		&stubNode{name: "after", kind: KindRank, fn: func(items []*core.Item) ([]*core.Item, error) {
			ran = true
			return items, nil
		}},
	}}

	if _, err := p.Run(context.Background(), nil, nil); !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want boom", err)
	}
	if ran {
		t.Errorf("nodes after a failure must not run")
	}
}

func TestNodeFactoryUnknownType(t *testing.T) {
	f := NewNodeFactory()
	if _, err := f.Build("nope", nil); err == nil || !strings.Contains(err.Error(), "unknown node type") {
		t.Fatalf("Build error = %v, want unknown node type", err)
	}
}

func TestBuildPipelineFromConfig(t *testing.T) {
	f := NewNodeFactory()
	f.Register("stub", func(cfg map[string]any) (Node, error) {
		return &stubNode{name: "stub", kind: KindReRank, fn: func(items []*core.Item) ([]*core.Item, error) {
			return items, nil
		}}, nil
	})

	var cfg Config
	cfg.Pipeline.Name = "test"
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "stub"}}

	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 1 || p.Nodes[0].Name() != "stub" {
		t.Errorf("pipeline nodes = %v", p.Nodes)
	}
}
