// Package feature 提供打分会话使用的剧集特征视图：
// 在 core.Catalog 之上做进程内记忆化，并附带类型参考数据。
package feature

import (
	"context"
	"sync"

	"github.com/seriesarchitect/seriesrec/core"
)

// kwKey 是关键词缓存的 key：同一剧集在不同 top-K 下是不同的集合。
type kwKey struct {
	id   int64
	topK int
}

// Store 是带记忆化的特征读取层。
//
// 语义约定：
//   - 缓存 key 即查询参数；命中时直接返回上次的值，即使底层目录已变化。
//     需要新鲜度的会话必须在打分前显式调用 Reset。
//   - 不存在的剧集同样被记忆化（nil 记录 / 空集合），避免反复回源。
//   - 打分期间只读，批量相似度可并发读取（读写锁保护）。
//
// 并发多个打分请求时，各请求独享一个 Store 实例，或共享一个在会话期间
// 只读的实例；算法本身不要求任何跨请求共享可变状态。
type Store struct {
	catalog core.Catalog

	mu       sync.RWMutex
	series   map[int64]*core.Series // value 为 nil 表示已确认不存在
	genres   map[int64]map[int64]struct{}
	keywords map[kwKey]map[int64]struct{}
}

func NewStore(catalog core.Catalog) *Store {
	s := &Store{catalog: catalog}
	s.reset()
	return s
}

// Series 返回剧集属性记录；未知 id 返回 (nil, nil)。
func (s *Store) Series(ctx context.Context, id int64) (*core.Series, error) {
	s.mu.RLock()
	rec, ok := s.series[id]
	s.mu.RUnlock()
	if ok {
		return rec, nil
	}

	rec, err := s.catalog.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if cached, ok := s.series[id]; ok {
		rec = cached // 并发回源时保留先写入的值
	} else {
		s.series[id] = rec
	}
	s.mu.Unlock()
	return rec, nil
}

// GenreSet 返回剧集的类型 id 集合；未知 id 返回空集合。
func (s *Store) GenreSet(ctx context.Context, id int64) (map[int64]struct{}, error) {
	s.mu.RLock()
	set, ok := s.genres[id]
	s.mu.RUnlock()
	if ok {
		return set, nil
	}

	ids, err := s.catalog.GetGenreIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	set = toSet(ids)

	s.mu.Lock()
	if cached, ok := s.genres[id]; ok {
		set = cached
	} else {
		s.genres[id] = set
	}
	s.mu.Unlock()
	return set, nil
}

// KeywordSet 返回剧集的关键词 id 集合，最多 topK 个；
// 缓存按 (id, topK) 区分。未知 id 返回空集合。
func (s *Store) KeywordSet(ctx context.Context, id int64, topK int) (map[int64]struct{}, error) {
	key := kwKey{id: id, topK: topK}

	s.mu.RLock()
	set, ok := s.keywords[key]
	s.mu.RUnlock()
	if ok {
		return set, nil
	}

	ids, err := s.catalog.GetKeywordIDs(ctx, id, topK)
	if err != nil {
		return nil, err
	}
	set = toSet(ids)

	s.mu.Lock()
	if cached, ok := s.keywords[key]; ok {
		set = cached
	} else {
		s.keywords[key] = set
	}
	s.mu.Unlock()
	return set, nil
}

// Reset 清空全部缓存。新会话开始前或测试之间调用，避免读到跨会话的陈旧数据。
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Store) reset() {
	s.series = make(map[int64]*core.Series)
	s.genres = make(map[int64]map[int64]struct{})
	s.keywords = make(map[kwKey]map[int64]struct{})
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
