package service

import (
	"context"
	"log/slog"
	"time"

	registrymetrics "malkhana/internal/registry/metrics"
	"malkhana/internal/registry/models"
	shelfmodels "malkhana/internal/shelf/models"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/platform/sentinel"
)

// ItemStore is the persistence surface for evidence items and their
// renumber history.
//
// Create must reject a duplicate mother number with sentinel.ErrConflict;
// uniqueness is global across all units and registry types. List methods
// return items ordered ascending by registry number (created-at as the tie
// break), so batch renumbering is deterministic.
//
// RunInTx runs fn atomically: every store call made with the context passed
// to fn commits or rolls back as one unit.
type ItemStore interface {
	Create(ctx context.Context, item *models.EvidenceItem) error
	FindByID(ctx context.Context, itemID id.ItemID) (*models.EvidenceItem, error)
	FindByMotherNumber(ctx context.Context, year, seq int) (*models.EvidenceItem, error)
	Update(ctx context.Context, item *models.EvidenceItem) error

	// MaxMotherSeq returns the highest mother-number sequence filed in the
	// unit for the given year, or 0 when none exist.
	MaxMotherSeq(ctx context.Context, unitID id.UnitID, year int) (int, error)
	// MaxRedInkNumber returns the highest Red Ink registry number in the
	// unit across all statuses, or 0 when the unit has no Red Ink items.
	MaxRedInkNumber(ctx context.Context, unitID id.UnitID) (int, error)

	// ListRegistry lists items of one registry type visible in scope.
	// registryYear 0 means all years.
	ListRegistry(ctx context.Context, scope id.UnitScope, registryType models.RegistryType, registryYear int) ([]*models.EvidenceItem, error)
	// ListActiveRedInkAbove lists the unit's ACTIVE Red Ink items whose
	// registry number is strictly greater than the given number.
	ListActiveRedInkAbove(ctx context.Context, unitID id.UnitID, number int) ([]*models.EvidenceItem, error)
	// ListActiveBlackInk lists the unit's ACTIVE Black Ink items filed
	// under the given registry year.
	ListActiveBlackInk(ctx context.Context, unitID id.UnitID, registryYear int) ([]*models.EvidenceItem, error)

	Search(ctx context.Context, scope id.UnitScope, query string) ([]*models.EvidenceItem, error)
	Stats(ctx context.Context, scope id.UnitScope, currentYear int, since time.Time) (models.Stats, error)

	AppendRenumberEvent(ctx context.Context, event *models.RenumberEvent) error
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ShelfDirectory resolves shelves for ownership validation. The registry
// never mutates shelves.
type ShelfDirectory interface {
	FindByID(ctx context.Context, shelfID id.ShelfID) (*shelfmodels.Shelf, error)
}

// Service owns the lifecycle of evidence items: numbering at creation,
// disposal with Red Ink renumbering, year transition, and unit-scoped
// queries.
type Service struct {
	items   ItemStore
	shelves ShelfDirectory
	logger  *slog.Logger
	metrics *registrymetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the registry Service with its dependencies injected.
func New(items ItemStore, shelves ShelfDirectory, opts ...Option) *Service {
	s := &Service{items: items, shelves: shelves, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadVisibleItem fetches an item and enforces unit visibility: not-found if
// absent anywhere, forbidden if it exists but belongs to another unit and
// the caller is not an administrator.
func (s *Service) loadVisibleItem(ctx context.Context, itemID id.ItemID, scope id.UnitScope) (*models.EvidenceItem, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load item")
	}
	if !scope.Allows(item.UnitID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "item belongs to another unit")
	}
	return item, nil
}
