package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Snapshot 进程内快照缓存：TTL 内算新鲜，TTL~MaxAge 之间算“旧值”
// （先返回旧值、后台刷新），超过 MaxAge 按未命中处理。
// 读多写少，最后写入者胜出。
type Snapshot[T any] struct {
	mu      sync.RWMutex
	entries map[string]snapEntry[T]
	ttl     time.Duration
	maxAge  time.Duration
	sf      singleflight.Group
	clock   func() time.Time // 测试可注入
}

type snapEntry[T any] struct {
	val        *T
	computedAt time.Time
}

func NewSnapshot[T any](ttl, maxAge time.Duration) *Snapshot[T] {
	if maxAge < ttl {
		maxAge = ttl
	}
	return &Snapshot[T]{
		entries: make(map[string]snapEntry[T]),
		ttl:     ttl,
		maxAge:  maxAge,
		clock:   time.Now,
	}
}

// Get 返回 (值, 是否已旧, 是否命中)
func (s *Snapshot[T]) Get(key string) (*T, bool, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, false
	}
	age := s.clock().Sub(e.computedAt)
	if age > s.maxAge {
		return nil, false, false
	}
	return e.val, age > s.ttl, true
}

func (s *Snapshot[T]) Set(key string, v *T) {
	s.mu.Lock()
	s.entries[key] = snapEntry[T]{val: v, computedAt: s.clock()}
	s.mu.Unlock()
}

func (s *Snapshot[T]) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad 新鲜直接返回；旧值先返回并在后台刷新（不阻塞调用方）；
// 未命中则同步回源（singleflight 合并并发回源）。
// 回源失败时若仍有未过 MaxAge 的旧值，返回旧值而不是错误。
func (s *Snapshot[T]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (*T, error)) (*T, bool, error) {
	if v, stale, ok := s.Get(key); ok {
		if stale {
			go s.refresh(key, load)
		}
		return v, stale, nil
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		nv, e := load(ctx)
		if e != nil {
			return nil, e
		}
		s.Set(key, nv)
		return nv, nil
	})
	if err != nil {
		// 旧值兜底：有缓存就不向上抛错
		if old, stale, ok := s.Get(key); ok {
			return old, stale, nil
		}
		return nil, false, err
	}
	return v.(*T), false, nil
}

func (s *Snapshot[T]) refresh(key string, load func(ctx context.Context) (*T, error)) {
	_, _, _ = s.sf.Do(key+":refresh", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		nv, e := load(ctx)
		if e != nil {
			// 刷新失败保留旧值
			return nil, e
		}
		s.Set(key, nv)
		return nv, nil
	})
}
