package service

import (
	"context"

	"malkhana/internal/registry/models"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/platform/sentinel"
	"malkhana/pkg/requestcontext"
)

// UpdateItem applies a generic field update to a non-terminal item.
//
// Transitioning status to DISPOSED through this path is rejected: disposal
// must go through DisposeItem so Red Ink renumbering always fires.
func (s *Service) UpdateItem(ctx context.Context, itemID id.ItemID, req *models.UpdateItemRequest, scope id.UnitScope) (*models.EvidenceItem, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)

	var updated *models.EvidenceItem
	err := s.items.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.loadVisibleItem(txCtx, itemID, scope)
		if err != nil {
			return err
		}
		if item.Status.IsTerminal() {
			return dErrors.New(dErrors.CodeInvariantViolation, "cannot update a disposed item")
		}
		if req.Status != nil {
			status := models.ItemStatus(*req.Status)
			if status == models.StatusDisposed {
				return dErrors.New(dErrors.CodeInvariantViolation, "disposal must go through the dispose operation")
			}
			item.Status = status
		}
		if req.CaseNumber != nil {
			item.Details.CaseNumber = *req.CaseNumber
		}
		if req.Description != nil {
			item.Details.Description = *req.Description
		}
		if req.Category != nil {
			item.Details.Category = *req.Category
		}
		if req.ReceivedFrom != nil {
			item.Details.ReceivedFrom = *req.ReceivedFrom
		}
		item.UpdatedAt = now

		if err := s.items.Update(txCtx, item); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update item")
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AssignShelf places an item on a shelf. The shelf must exist and, for
// scoped callers, belong to the item's unit; administrators bypass the
// ownership check.
func (s *Service) AssignShelf(ctx context.Context, itemID id.ItemID, req *models.AssignShelfRequest, scope id.UnitScope) (*models.EvidenceItem, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	shelfID, err := id.ParseShelfID(req.ShelfID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)

	var updated *models.EvidenceItem
	err = s.items.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.loadVisibleItem(txCtx, itemID, scope)
		if err != nil {
			return err
		}
		shelf, err := s.shelves.FindByID(txCtx, shelfID)
		if err != nil {
			if dErrors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "shelf not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shelf")
		}
		if !scope.IsUnrestricted() && shelf.UnitID != item.UnitID {
			return dErrors.New(dErrors.CodeForbidden, "shelf belongs to another unit")
		}

		item.ShelfID = &shelfID
		item.UpdatedAt = now
		if err := s.items.Update(txCtx, item); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign shelf")
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
