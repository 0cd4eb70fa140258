package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"malkhana/internal/shelf/models"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/platform/sentinel"
	"malkhana/pkg/requestcontext"
)

// ShelfStore is the persistence surface the shelf service needs.
type ShelfStore interface {
	Create(ctx context.Context, shelf *models.Shelf) error
	FindByID(ctx context.Context, shelfID id.ShelfID) (*models.Shelf, error)
	ListByUnit(ctx context.Context, scope id.UnitScope) ([]*models.Shelf, error)
}

// Service manages the shelf directory. It is a thin reference-entity module;
// ownership checks against items live in the registry service.
type Service struct {
	shelves ShelfStore
	logger  *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a shelf Service.
func New(shelves ShelfStore, opts ...Option) *Service {
	s := &Service{shelves: shelves, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateShelf registers a shelf in the caller's unit. Administrators must
// name the unit explicitly in the request.
func (s *Service) CreateShelf(ctx context.Context, req *models.CreateShelfRequest, scope id.UnitScope) (*models.Shelf, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unitID, ok := scope.UnitID()
	if !ok {
		if req.UnitID == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "unit_id is required for administrator callers")
		}
		parsed, err := id.ParseUnitID(req.UnitID)
		if err != nil {
			return nil, err
		}
		unitID = parsed
	}

	shelf, err := models.NewShelf(id.ShelfID(uuid.New()), unitID, req.Name, req.Location, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.shelves.Create(ctx, shelf); err != nil {
		if dErrors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "shelf already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create shelf")
	}
	return shelf, nil
}

// GetShelf fetches one shelf, enforcing unit visibility.
func (s *Service) GetShelf(ctx context.Context, shelfID id.ShelfID, scope id.UnitScope) (*models.Shelf, error) {
	shelf, err := s.shelves.FindByID(ctx, shelfID)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "shelf not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shelf")
	}
	if !scope.Allows(shelf.UnitID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "shelf belongs to another unit")
	}
	return shelf, nil
}

// ListShelves lists the shelves visible in the caller's scope.
func (s *Service) ListShelves(ctx context.Context, scope id.UnitScope) ([]*models.Shelf, error) {
	shelves, err := s.shelves.ListByUnit(ctx, scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list shelves")
	}
	return shelves, nil
}
