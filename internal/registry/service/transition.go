package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"malkhana/internal/registry/models"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/requestcontext"
)

// PerformYearTransition closes out the year before newYear: every ACTIVE
// Black Ink item the unit filed under that year moves into the Red Ink
// register, taking sequential numbers after the unit's current highest Red
// Ink number. Mother numbers are never touched.
//
// Zero eligible items is a success reporting a zero count, safe to repeat.
// The batch commits atomically.
//
// Items are processed in ascending registry-number order (created-at as the
// tie break), so assigned Red Ink numbers preserve the Black Ink filing
// order.
func (s *Service) PerformYearTransition(ctx context.Context, unitID id.UnitID, req *models.YearTransitionRequest, scope id.UnitScope) (*models.YearTransitionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !scope.Allows(unitID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "unit belongs to another caller")
	}

	now := requestcontext.Now(ctx)
	transitionYear := req.NewYear - 1
	if transitionYear > now.Year() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "cannot transition year %d: it has not ended", transitionYear)
	}

	var result *models.YearTransitionResult
	err := s.items.RunInTx(ctx, func(txCtx context.Context) error {
		items, err := s.items.ListActiveBlackInk(txCtx, unitID, transitionYear)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load items for transition")
		}
		if len(items) == 0 {
			result = &models.YearTransitionResult{
				Success:      true,
				Message:      fmt.Sprintf("no black ink items to transition for year %d", transitionYear),
				PreviousYear: transitionYear,
				NewYear:      req.NewYear,
			}
			return nil
		}

		maxRedInk, err := s.items.MaxRedInkNumber(txCtx, unitID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to determine next red ink number")
		}

		next := maxRedInk + 1
		for _, item := range items {
			// Legacy data can leave a red ink item carrying the old year;
			// snapshot its current number before it is reassigned.
			if item.RegistryType == models.RegistryTypeRedInk {
				event := &models.RenumberEvent{
					ID:        id.EventID(uuid.New()),
					ItemID:    item.ID,
					Year:      now.Year(),
					RedInkID:  item.RegistryNumber,
					CreatedAt: now,
				}
				if err := s.items.AppendRenumberEvent(txCtx, event); err != nil {
					return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record renumber event")
				}
			}

			item.RegistryType = models.RegistryTypeRedInk
			item.RegistryNumber = next
			item.UpdatedAt = now
			if err := s.items.Update(txCtx, item); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to transition item")
			}
			next++
		}

		result = &models.YearTransitionResult{
			Success:           true,
			Message:           fmt.Sprintf("transitioned %d items from %d into the red ink register", len(items), transitionYear),
			ItemsTransitioned: len(items),
			PreviousYear:      transitionYear,
			NewYear:           req.NewYear,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil && result.ItemsTransitioned > 0 {
		s.metrics.AddYearTransitionItems(result.ItemsTransitioned)
	}
	s.logger.InfoContext(ctx, "year transition complete",
		"unit_id", unitID.String(),
		"previous_year", result.PreviousYear,
		"items_transitioned", result.ItemsTransitioned,
	)
	return result, nil
}
