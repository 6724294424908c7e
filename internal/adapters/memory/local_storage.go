// Package memory provides an in-process ports.LocalStorage for development and tests.
package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time // zero = never
}

// LocalStorage keeps values per browser scope in memory. Expired entries are
// dropped lazily on read.
type LocalStorage struct {
	mu     sync.RWMutex
	scopes map[string]map[string]entry
	now    func() time.Time
}

// NewLocalStorage creates an empty in-memory local storage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{scopes: map[string]map[string]entry{}, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (s *LocalStorage) WithClock(now func() time.Time) *LocalStorage {
	s.now = now
	return s
}

func (s *LocalStorage) GetItem(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.scopes[scope][key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.scopes[scope][key]; still && cur == e {
			delete(s.scopes[scope], key)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *LocalStorage) SetItem(_ context.Context, scope, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.scopes[scope]
	if !ok {
		m = map[string]entry{}
		s.scopes[scope] = m
	}
	m[key] = e
	return nil
}

func (s *LocalStorage) RemoveItems(_ context.Context, scope string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.scopes[scope]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(m, k)
	}
	if len(m) == 0 {
		delete(s.scopes, scope)
	}
	return nil
}

// Len returns the number of live keys in scope.
func (s *LocalStorage) Len(scope string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	now := s.now()
	for _, e := range s.scopes[scope] {
		if e.expiresAt.IsZero() || now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}
