package store

import (
	"context"
	"sort"
	"sync"

	"malkhana/internal/shelf/models"
	id "malkhana/pkg/domain"
	"malkhana/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded shelf store for tests and single-node runs.
type InMemory struct {
	mu      sync.RWMutex
	shelves map[id.ShelfID]*models.Shelf
}

// NewInMemory constructs an empty in-memory shelf store.
func NewInMemory() *InMemory {
	return &InMemory{shelves: make(map[id.ShelfID]*models.Shelf)}
}

func (s *InMemory) Create(_ context.Context, shelf *models.Shelf) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shelves[shelf.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *shelf
	s.shelves[shelf.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, shelfID id.ShelfID) (*models.Shelf, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shelf, ok := s.shelves[shelfID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *shelf
	return &cp, nil
}

func (s *InMemory) ListByUnit(_ context.Context, scope id.UnitScope) ([]*models.Shelf, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Shelf, 0)
	for _, shelf := range s.shelves {
		if !scope.Allows(shelf.UnitID) {
			continue
		}
		cp := *shelf
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
