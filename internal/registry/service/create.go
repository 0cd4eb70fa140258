package service

import (
	"context"

	"github.com/google/uuid"

	"malkhana/internal/registry/models"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/platform/sentinel"
	"malkhana/pkg/requestcontext"
)

// CreateItem files a new evidence item.
//
// Black Ink items receive the next free mother-number sequence for the
// caller's unit and the current year; the sequence doubles as the registry
// number. Red Ink items are back-filed with the caller-supplied mother
// number and registry year. Either way the mother number must be unique
// across the whole store; a duplicate surfaces as a conflict.
//
// Scoped callers always file into their own unit. Administrators must name
// the unit in the request.
func (s *Service) CreateItem(ctx context.Context, req *models.CreateItemRequest, scope id.UnitScope) (*models.EvidenceItem, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unitID, err := s.effectiveUnit(req, scope)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	createdBy := requestcontext.UserID(ctx)
	registryType := req.EffectiveRegistryType()

	shelfID, err := s.resolveShelf(ctx, req.ShelfID, unitID, scope)
	if err != nil {
		return nil, err
	}

	var item *models.EvidenceItem
	err = s.items.RunInTx(ctx, func(txCtx context.Context) error {
		switch registryType {
		case models.RegistryTypeRedInk:
			item, err = models.NewRedInkItem(id.ItemID(uuid.New()), unitID, req.MotherNumber, req.RegistryYear, req.Details(), createdBy, now)
			if err != nil {
				return err
			}
		default:
			// Numeric max over the unit's sequences for the year; "highest
			// plus one" recomputed inside the transaction so a concurrent
			// creation loses to the uniqueness constraint, not silently.
			maxSeq, err := s.items.MaxMotherSeq(txCtx, unitID, now.Year())
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to determine next sequence")
			}
			item, err = models.NewBlackInkItem(id.ItemID(uuid.New()), unitID, now.Year(), maxSeq+1, req.Details(), createdBy, now)
			if err != nil {
				return err
			}
		}
		item.ShelfID = shelfID

		if err := s.items.Create(txCtx, item); err != nil {
			if dErrors.Is(err, sentinel.ErrConflict) {
				return dErrors.Newf(dErrors.CodeConflict, "mother number %s already exists", item.MotherNumber())
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementItemsCreated(registryType.String())
	}
	return item, nil
}

// effectiveUnit resolves which unit a creation files into. An unrestricted
// (administrator) caller has no fixed unit and must supply one.
func (s *Service) effectiveUnit(req *models.CreateItemRequest, scope id.UnitScope) (id.UnitID, error) {
	if unitID, ok := scope.UnitID(); ok {
		return unitID, nil
	}
	if req.UnitID == "" {
		return id.UnitID{}, dErrors.New(dErrors.CodeValidation, "unit_id is required")
	}
	return id.ParseUnitID(req.UnitID)
}

// resolveShelf validates an optional shelf reference: the shelf must exist,
// and for scoped callers it must belong to the effective unit.
func (s *Service) resolveShelf(ctx context.Context, raw string, unitID id.UnitID, scope id.UnitScope) (*id.ShelfID, error) {
	if raw == "" {
		return nil, nil
	}
	shelfID, err := id.ParseShelfID(raw)
	if err != nil {
		return nil, err
	}
	shelf, err := s.shelves.FindByID(ctx, shelfID)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "shelf not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shelf")
	}
	if !scope.IsUnrestricted() && shelf.UnitID != unitID {
		return nil, dErrors.New(dErrors.CodeForbidden, "shelf belongs to another unit")
	}
	return &shelfID, nil
}
