package service

import (
	"context"
	"strings"

	"malkhana/internal/registry/models"
	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
	"malkhana/pkg/platform/sentinel"
	"malkhana/pkg/requestcontext"
)

// BlackInkItems lists the current calendar year's Black Ink register,
// ordered by registry number. Administrators see every unit.
func (s *Service) BlackInkItems(ctx context.Context, scope id.UnitScope) ([]*models.EvidenceItem, error) {
	year := requestcontext.Now(ctx).Year()
	items, err := s.items.ListRegistry(ctx, scope, models.RegistryTypeBlackInk, year)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list black ink items")
	}
	return items, nil
}

// RedInkItems lists the Red Ink register across all years, ordered by
// registry number.
func (s *Service) RedInkItems(ctx context.Context, scope id.UnitScope) ([]*models.EvidenceItem, error) {
	items, err := s.items.ListRegistry(ctx, scope, models.RegistryTypeRedInk, 0)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list red ink items")
	}
	return items, nil
}

// GetItem fetches one item, enforcing unit visibility.
func (s *Service) GetItem(ctx context.Context, itemID id.ItemID, scope id.UnitScope) (*models.EvidenceItem, error) {
	return s.loadVisibleItem(ctx, itemID, scope)
}

// FindByMotherNumber looks an item up by its permanent identifier, e.g.
// "2024-00017". Not-found if absent anywhere; forbidden if it exists but
// belongs to another unit and the caller is not an administrator.
func (s *Service) FindByMotherNumber(ctx context.Context, motherNumber string, scope id.UnitScope) (*models.EvidenceItem, error) {
	year, seq, err := models.ParseMotherNumber(motherNumber)
	if err != nil {
		return nil, err
	}
	item, err := s.items.FindByMotherNumber(ctx, year, seq)
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

// SearchItems matches the query case-insensitively against mother number,
// case number, description, category, and received-from, within scope.
func (s *Service) SearchItems(ctx context.Context, query string, scope id.UnitScope) ([]*models.EvidenceItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "search query is required")
	}
	items, err := s.items.Search(ctx, scope, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search items")
	}
	return items, nil
}

// Stats summarizes the registers visible in scope: current-year Black Ink,
// all Red Ink, all disposed regardless of registry type, and items created
// in the trailing 30 days.
func (s *Service) Stats(ctx context.Context, scope id.UnitScope) (models.Stats, error) {
	now := requestcontext.Now(ctx)
	stats, err := s.items.Stats(ctx, scope, now.Year(), now.AddDate(0, 0, -30))
	if err != nil {
		return models.Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute stats")
	}
	return stats, nil
}
