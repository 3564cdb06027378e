package adapter

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/JEGHTNER/Zooting/internal/infrastructure/store/port"
)

type memoryEntry struct {
	value     []byte
	version   uint64
	expiresAt time.Time // zero = no expiry
}

// MemoryStore is an in-process port.Store used by tests and local runs
// without a Redis server. Expiry is evaluated lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

var _ port.Store = (*MemoryStore)(nil)

func (s *MemoryStore) live(key string) *memoryEntry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil
	}
	return e
}

func (s *MemoryStore) Get(_ context.Context, key string) (port.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil {
		return port.Record{}, port.ErrNotFound
	}
	value := make([]byte, len(e.value))
	copy(value, e.value)
	return port.Record{Key: key, Value: value, Version: e.version}, nil
}

func (s *MemoryStore) PutVersioned(_ context.Context, key string, value []byte, expect uint64, ttl time.Duration) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key)
	current := uint64(0)
	if e != nil {
		current = e.version
	}
	if current != expect {
		return 0, port.ErrConflict
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	next := &memoryEntry{value: stored, version: current + 1}
	if ttl > 0 {
		next.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = next
	return next.version, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) List(_ context.Context, prefix string) ([]port.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []port.Record
	for key := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if e := s.live(key); e != nil {
			value := make([]byte, len(e.value))
			copy(value, e.value)
			records = append(records, port.Record{Key: key, Value: value, Version: e.version})
		}
	}
	return records, nil
}

func (s *MemoryStore) Close() error { return nil }
