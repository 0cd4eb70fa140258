package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"malkhana/internal/registry/models"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/requestcontext"
)

// DisposeItem takes an item out of custody.
//
// Disposing a Red Ink item leaves a hole in the register's dense filing
// order, so every ACTIVE Red Ink item filed after it shifts down by one to
// close the gap. Each shifted item first gets a RenumberEvent recording the
// number it is vacating, so the history stays complete across repeated
// disposals. The disposed item's own number is frozen as of disposal.
//
// The whole sequence — status change plus renumbering — commits atomically.
func (s *Service) DisposeItem(ctx context.Context, itemID id.ItemID, req *models.DisposeItemRequest, scope id.UnitScope) (*models.EvidenceItem, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)

	var disposed *models.EvidenceItem
	var shifted int
	err := s.items.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.loadVisibleItem(txCtx, itemID, scope)
		if err != nil {
			return err
		}
		if err := item.CanDispose(); err != nil {
			return err
		}

		freed := item.RegistryNumber
		item.ApplyDisposal(req.Disposal(), now)
		if err := s.items.Update(txCtx, item); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to dispose item")
		}

		if item.RegistryType == models.RegistryTypeRedInk {
			shifted, err = s.renumberAfterDisposal(txCtx, item.UnitID, freed, now)
			if err != nil {
				return err
			}
		}

		disposed = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementDisposals()
		s.metrics.AddRenumberEvents(shifted)
	}
	s.logger.InfoContext(ctx, "item disposed",
		"item_id", disposed.ID.String(),
		"mother_number", disposed.MotherNumber(),
		"registry_type", disposed.RegistryType.String(),
		"items_renumbered", shifted,
	)
	return disposed, nil
}

// renumberAfterDisposal closes the gap left at freed: every ACTIVE Red Ink
// item in the unit filed above it takes the next lower slot, starting at the
// freed number itself. Events capture each pre-shift number before any
// number changes. Items are never compacted beyond the gap; the shift is the
// whole adjustment.
func (s *Service) renumberAfterDisposal(ctx context.Context, unitID id.UnitID, freed int, now time.Time) (int, error) {
	items, err := s.items.ListActiveRedInkAbove(ctx, unitID, freed)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load items for renumbering")
	}

	for _, item := range items {
		event := &models.RenumberEvent{
			ID:        id.EventID(uuid.New()),
			ItemID:    item.ID,
			Year:      now.Year(),
			RedInkID:  item.RegistryNumber,
			CreatedAt: now,
		}
		if err := s.items.AppendRenumberEvent(ctx, event); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record renumber event")
		}
	}

	next := freed
	for _, item := range items {
		item.RegistryNumber = next
		item.UpdatedAt = now
		if err := s.items.Update(ctx, item); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to renumber item")
		}
		next++
	}
	return len(items), nil
}
