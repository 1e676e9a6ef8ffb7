package scanstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory, thread-safe Store implementation. Used in
// tests and in deployments that run without a database, where scan
// history only needs to survive for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	scans map[uuid.UUID]*Scan
	order []uuid.UUID // insertion order, oldest first
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scans: make(map[uuid.UUID]*Scan)}
}

// Save implements Store. Sets ID and CreatedAt on the scan.
func (s *MemoryStore) Save(_ context.Context, scan *Scan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scan.ID = uuid.New()
	scan.CreatedAt = time.Now().UTC()
	cp := *scan
	s.scans[scan.ID] = &cp
	s.order = append(s.order, scan.ID)
	return nil
}

// GetByID implements Store.
func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scan, ok := s.scans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *scan
	return &cp, nil
}

// List implements Store, returning scans newest first.
func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]*Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*Scan{}
	// Walk insertion order backwards so the newest scan comes first.
	for i := len(s.order) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		if scan, ok := s.scans[s.order[i]]; ok {
			cp := *scan
			result = append(result, &cp)
		}
	}
	return result, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scans[id]; !ok {
		return ErrNotFound
	}
	delete(s.scans, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
