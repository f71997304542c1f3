package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestSnapshot(ttl, maxAge time.Duration) (*Snapshot[int], *fakeClock) {
	s := NewSnapshot[int](ttl, maxAge)
	fc := &fakeClock{now: time.Unix(1700000000, 0)}
	s.clock = fc.Now
	return s, fc
}

func TestSnapshot_Get(t *testing.T) {
	s, fc := newTestSnapshot(time.Minute, 10*time.Minute)
	v := 42
	s.Set("k", &v)

	t.Run("fresh within ttl", func(t *testing.T) {
		got, stale, ok := s.Get("k")
		require.True(t, ok)
		require.False(t, stale)
		require.Equal(t, 42, *got)
	})

	t.Run("stale between ttl and max age", func(t *testing.T) {
		fc.Advance(2 * time.Minute)
		got, stale, ok := s.Get("k")
		require.True(t, ok)
		require.True(t, stale)
		require.Equal(t, 42, *got)
	})

	t.Run("expired beyond max age is a miss", func(t *testing.T) {
		fc.Advance(20 * time.Minute)
		_, _, ok := s.Get("k")
		require.False(t, ok)
	})

	t.Run("unknown key is a miss", func(t *testing.T) {
		_, _, ok := s.Get("nope")
		require.False(t, ok)
	})
}

func TestSnapshot_GetOrLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("miss loads synchronously", func(t *testing.T) {
		s, _ := newTestSnapshot(time.Minute, 10*time.Minute)
		var calls int32
		got, stale, err := s.GetOrLoad(ctx, "k", func(context.Context) (*int, error) {
			atomic.AddInt32(&calls, 1)
			v := 7
			return &v, nil
		})
		require.NoError(t, err)
		require.False(t, stale)
		require.Equal(t, 7, *got)
		require.EqualValues(t, 1, calls)
	})

	t.Run("fresh hit does not reload", func(t *testing.T) {
		s, _ := newTestSnapshot(time.Minute, 10*time.Minute)
		v := 1
		s.Set("k", &v)
		got, stale, err := s.GetOrLoad(ctx, "k", func(context.Context) (*int, error) {
			t.Fatal("load must not run on a fresh hit")
			return nil, nil
		})
		require.NoError(t, err)
		require.False(t, stale)
		require.Equal(t, 1, *got)
	})

	t.Run("stale hit returns old value immediately", func(t *testing.T) {
		s, fc := newTestSnapshot(time.Minute, 10*time.Minute)
		v := 1
		s.Set("k", &v)
		fc.Advance(2 * time.Minute)

		refreshed := make(chan struct{})
		got, stale, err := s.GetOrLoad(ctx, "k", func(context.Context) (*int, error) {
			defer close(refreshed)
			nv := 2
			return &nv, nil
		})
		require.NoError(t, err)
		require.True(t, stale)
		require.Equal(t, 1, *got)

		// 后台刷新完成后再读应拿到新值
		select {
		case <-refreshed:
		case <-time.After(2 * time.Second):
			t.Fatal("background refresh did not run")
		}
		got2, stale2, ok := s.Get("k")
		require.True(t, ok)
		require.False(t, stale2)
		require.Equal(t, 2, *got2)
	})

	t.Run("load failure after cache fully expired returns the error", func(t *testing.T) {
		s, fc := newTestSnapshot(time.Minute, 10*time.Minute)
		v := 9
		s.Set("k", &v)
		fc.Advance(20 * time.Minute) // 超过 max age，按未命中回源

		got, _, err := s.GetOrLoad(ctx, "k", func(context.Context) (*int, error) {
			return nil, errors.New("db down")
		})
		// 缓存彻底过期后回源失败只能报错
		require.Error(t, err)
		require.Nil(t, got)
	})

	t.Run("load failure without any cache returns the error", func(t *testing.T) {
		s, _ := newTestSnapshot(time.Minute, 10*time.Minute)
		_, _, err := s.GetOrLoad(ctx, "missing", func(context.Context) (*int, error) {
			return nil, errors.New("db down")
		})
		require.Error(t, err)
	})
}
