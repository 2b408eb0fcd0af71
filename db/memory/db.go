package memory

import (
	"errors"
	"slices"
	"sync"

	"github.com/NethermindEth/juno-cheatnet/db"
)

var errClosed = errors.New("memory store closed")

var _ db.KeyValueStore = (*Store)(nil)

// Store keeps values in a map guarded by a RWMutex
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Get(key []byte, cb func(value []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	val, ok := s.values[string(key)]
	if !ok {
		return db.ErrKeyNotFound
	}
	return cb(val)
}

func (s *Store) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.values[string(key)] = slices.Clone(value)
	return nil
}

func (s *Store) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	delete(s.values, string(key))
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.values = nil
	return nil
}
