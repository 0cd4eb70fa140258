package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"malkhana/internal/registry/models"
	id "malkhana/pkg/domain"
	"malkhana/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded item store for tests and single-node runs.
//
// RunInTx serializes callers on a dedicated mutex, which makes multi-step
// sequences (renumbering, year transition) atomic with respect to each
// other. There is no rollback: a failing step leaves prior writes applied.
// The Postgres store is the one that provides real transactional semantics.
type InMemory struct {
	txMu sync.Mutex

	mu     sync.RWMutex
	items  map[id.ItemID]*models.EvidenceItem
	mother map[[2]int]id.ItemID // {year, seq} -> item, global uniqueness
	events map[id.ItemID][]models.RenumberEvent
}

// NewInMemory constructs an empty in-memory item store.
func NewInMemory() *InMemory {
	return &InMemory{
		items:  make(map[id.ItemID]*models.EvidenceItem),
		mother: make(map[[2]int]id.ItemID),
		events: make(map[id.ItemID][]models.RenumberEvent),
	}
}

func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}

func (s *InMemory) Create(_ context.Context, item *models.EvidenceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int{item.MotherYear, item.MotherSeq}
	if _, exists := s.mother[key]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.items[item.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[item.ID] = cloneItem(item)
	s.mother[key] = item.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, itemID id.ItemID) (*models.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.withHistory(item), nil
}

func (s *InMemory) FindByMotherNumber(_ context.Context, year, seq int) (*models.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itemID, ok := s.mother[[2]int{year, seq}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.withHistory(s.items[itemID]), nil
}

func (s *InMemory) Update(_ context.Context, item *models.EvidenceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.items[item.ID] = cloneItem(item)
	return nil
}

func (s *InMemory) MaxMotherSeq(_ context.Context, unitID id.UnitID, year int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, item := range s.items {
		if item.UnitID == unitID && item.MotherYear == year && item.MotherSeq > max {
			max = item.MotherSeq
		}
	}
	return max, nil
}

func (s *InMemory) MaxRedInkNumber(_ context.Context, unitID id.UnitID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, item := range s.items {
		if item.UnitID == unitID && item.RegistryType == models.RegistryTypeRedInk && item.RegistryNumber > max {
			max = item.RegistryNumber
		}
	}
	return max, nil
}

func (s *InMemory) ListRegistry(_ context.Context, scope id.UnitScope, registryType models.RegistryType, registryYear int) ([]*models.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.EvidenceItem
	for _, item := range s.items {
		if !scope.Allows(item.UnitID) || item.RegistryType != registryType {
			continue
		}
		if registryYear != 0 && item.RegistryYear != registryYear {
			continue
		}
		out = append(out, s.withHistory(item))
	}
	sortByRegistryNumber(out)
	return out, nil
}

func (s *InMemory) ListActiveRedInkAbove(_ context.Context, unitID id.UnitID, number int) ([]*models.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.EvidenceItem
	for _, item := range s.items {
		if item.UnitID != unitID || item.Status != models.StatusActive {
			continue
		}
		if item.RegistryType != models.RegistryTypeRedInk || item.RegistryNumber <= number {
			continue
		}
		out = append(out, s.withHistory(item))
	}
	sortByRegistryNumber(out)
	return out, nil
}

func (s *InMemory) ListActiveBlackInk(_ context.Context, unitID id.UnitID, registryYear int) ([]*models.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.EvidenceItem
	for _, item := range s.items {
		if item.UnitID != unitID || item.Status != models.StatusActive {
			continue
		}
		if item.RegistryType != models.RegistryTypeBlackInk || item.RegistryYear != registryYear {
			continue
		}
		out = append(out, s.withHistory(item))
	}
	sortByRegistryNumber(out)
	return out, nil
}

func (s *InMemory) Search(_ context.Context, scope id.UnitScope, query string) ([]*models.EvidenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	var out []*models.EvidenceItem
	for _, item := range s.items {
		if !scope.Allows(item.UnitID) {
			continue
		}
		if matchesQuery(item, needle) {
			out = append(out, s.withHistory(item))
		}
	}
	sortByRegistryNumber(out)
	return out, nil
}

func (s *InMemory) Stats(_ context.Context, scope id.UnitScope, currentYear int, since time.Time) (models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats models.Stats
	for _, item := range s.items {
		if !scope.Allows(item.UnitID) {
			continue
		}
		if item.RegistryType == models.RegistryTypeBlackInk && item.RegistryYear == currentYear {
			stats.BlackInkCount++
		}
		if item.RegistryType == models.RegistryTypeRedInk {
			stats.RedInkCount++
		}
		if item.Status == models.StatusDisposed {
			stats.DisposedCount++
		}
		if !item.CreatedAt.Before(since) {
			stats.RecentCount++
		}
	}
	return stats, nil
}

func (s *InMemory) AppendRenumberEvent(_ context.Context, event *models.RenumberEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[event.ItemID]; !ok {
		return sentinel.ErrNotFound
	}
	s.events[event.ItemID] = append(s.events[event.ItemID], *event)
	return nil
}

// withHistory returns a copy of the item with its renumber history attached.
// Callers must hold at least a read lock.
func (s *InMemory) withHistory(item *models.EvidenceItem) *models.EvidenceItem {
	cp := cloneItem(item)
	if events := s.events[item.ID]; len(events) > 0 {
		cp.RedInkHistory = append([]models.RenumberEvent(nil), events...)
	}
	return cp
}

func cloneItem(item *models.EvidenceItem) *models.EvidenceItem {
	cp := *item
	if item.ShelfID != nil {
		shelfID := *item.ShelfID
		cp.ShelfID = &shelfID
	}
	if item.DisposedAt != nil {
		disposedAt := *item.DisposedAt
		cp.DisposedAt = &disposedAt
	}
	cp.RedInkHistory = append([]models.RenumberEvent(nil), item.RedInkHistory...)
	return &cp
}

func sortByRegistryNumber(items []*models.EvidenceItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].RegistryNumber != items[j].RegistryNumber {
			return items[i].RegistryNumber < items[j].RegistryNumber
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func matchesQuery(item *models.EvidenceItem, needle string) bool {
	fields := []string{
		item.MotherNumber(),
		item.Details.CaseNumber,
		item.Details.Description,
		item.Details.Category,
		item.Details.ReceivedFrom,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
