package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-process TTL cache. A ttl <= 0 keeps entries until deleted.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	flight  resilience.Group[V]
	now     func() time.Time
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.expired(e) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && s.expired(current) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	e := entry[V]{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value or runs loader once for all concurrent
// callers of the same key and caches a successful result.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}
	return s.load(ctx, key, loader, true)
}

// Refresh always runs loader, deduplicated per key, and replaces the cached value.
func (s *Store[V]) Refresh(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	return s.load(ctx, key, loader, false)
}

func (s *Store[V]) load(ctx context.Context, key string, loader func(context.Context) (V, error), recheck bool) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	value, err, _ := s.flight.Do(key, func() (V, error) {
		if recheck {
			if cached, ok := s.Get(ctx, key); ok {
				return cached, nil
			}
		}
		loaded, err := loader(ctx)
		if err != nil {
			return zero, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, err
}

func (s *Store[V]) expired(e entry[V]) bool {
	return s.ttl > 0 && !e.expiresAt.After(s.now())
}
