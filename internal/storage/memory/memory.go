// Package memory provides an in-process storage.Store, used by tests and by
// the offline CLI commands.
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/storefront/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every session's values in a map guarded by a mutex.
type Store struct {
	mu     sync.RWMutex
	values map[string]map[string]string
	closed bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: make(map[string]map[string]string)}
}

func (s *Store) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, storage.ErrClosed
	}
	v, ok := s.values[sessionID][key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	kv, ok := s.values[sessionID]
	if !ok {
		kv = make(map[string]string)
		s.values[sessionID] = kv
	}
	kv[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	delete(s.values[sessionID], key)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.values = nil
	s.mu.Unlock()
	return nil
}
