package session

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCapacity bounds the in-memory store. A classroom deployment
// never gets close; the bound is there so an unattended server cannot
// accumulate sessions forever.
const DefaultCapacity = 1024

// MemoryStore is a bounded LRU-backed session store.
type MemoryStore[T any] struct {
	cache *lru.Cache
}

// NewMemoryStore builds a store holding at most capacity sessions.
// Non-positive capacity falls back to DefaultCapacity.
func NewMemoryStore[T any](capacity int) *MemoryStore[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, _ := lru.New(capacity)
	return &MemoryStore[T]{cache: cache}
}

func (s *MemoryStore[T]) Get(id string) (T, error) {
	var zero T
	v, ok := s.cache.Get(id)
	if !ok {
		return zero, ErrNotFound
	}
	return v.(T), nil
}

func (s *MemoryStore[T]) Put(id string, v T) {
	s.cache.Add(id, v)
}

func (s *MemoryStore[T]) Remove(id string) {
	s.cache.Remove(id)
}

func (s *MemoryStore[T]) Len() int {
	return s.cache.Len()
}
