package store

import (
	"context"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	if _, err := m.Get(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want v", got)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(ctx, "k"); err != ErrNotFound {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreCloseStopsCleanup(t *testing.T) {
	m := NewMemoryStore()

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-m.done:
	default:
		t.Fatal("Close must signal the cleanup goroutine to exit")
	}

	// 重复关闭安全
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := m.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet: %v", err)
	}

	got, err := m.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BatchGet: %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	if err := m.HSet(ctx, "records", "1", []byte("one")); err != nil {
		t.Fatalf("HSet: %v", err)
	}
	if err := m.HSet(ctx, "records", "2", []byte("two")); err != nil {
		t.Fatalf("HSet: %v", err)
	}

	got, err := m.HGet(ctx, "records", "1")
	if err != nil {
		t.Fatalf("HGet: %v", err)
	}
	if string(got) != "one" {
		t.Errorf("HGet = %q, want one", got)
	}

	if _, err := m.HGet(ctx, "records", "3"); err != ErrNotFound {
		t.Errorf("HGet missing field: err = %v, want ErrNotFound", err)
	}

	all, err := m.HGetAll(ctx, "records")
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("HGetAll = %v, want two fields", all)
	}

	// Hash 与普通 KV 空间独立
	if _, err := m.Get(ctx, "records"); err != ErrNotFound {
		t.Errorf("plain Get on a hash key: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSortedSet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	for member, score := range map[string]float64{"a": 10, "b": 30, "c": 20} {
		if err := m.ZAdd(ctx, "popular", score, member); err != nil {
			t.Fatalf("ZAdd: %v", err)
		}
	}

	// 按分数降序
	got, err := m.ZRange(ctx, "popular", 0, -1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	want := []string{"b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("ZRange = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ZRange = %v, want %v", got, want)
		}
	}

	top2, err := m.ZRange(ctx, "popular", 0, 1)
	if err != nil {
		t.Fatalf("ZRange: %v", err)
	}
	if len(top2) != 2 || top2[0] != "b" || top2[1] != "c" {
		t.Errorf("ZRange top2 = %v, want [b c]", top2)
	}

	score, err := m.ZScore(ctx, "popular", "c")
	if err != nil {
		t.Fatalf("ZScore: %v", err)
	}
	if score != 20 {
		t.Errorf("ZScore = %v, want 20", score)
	}
	if _, err := m.ZScore(ctx, "popular", "zz"); err != ErrNotFound {
		t.Errorf("ZScore missing member: err = %v, want ErrNotFound", err)
	}
}
