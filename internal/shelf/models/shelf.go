package models

import (
	"strings"
	"time"

	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
)

// Shelf is a reference entity marking a physical location in a unit's
// malkhana room. The registry validates shelf-to-unit ownership before
// assignment but does not manage anything beyond this record.
type Shelf struct {
	ID        id.ShelfID
	UnitID    id.UnitID
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewShelf constructs a shelf, enforcing field invariants.
func NewShelf(shelfID id.ShelfID, unitID id.UnitID, name, location string, now time.Time) (*Shelf, error) {
	name = strings.TrimSpace(name)
	if unitID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "unit is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "shelf name is required")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeValidation, "shelf name must be 128 characters or less")
	}
	return &Shelf{
		ID:        shelfID,
		UnitID:    unitID,
		Name:      name,
		Location:  strings.TrimSpace(location),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CreateShelfRequest is the payload for registering a shelf.
type CreateShelfRequest struct {
	UnitID   string `json:"unit_id,omitempty"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func (r *CreateShelfRequest) Normalize() {
	if r == nil {
		return
	}
	r.UnitID = strings.TrimSpace(r.UnitID)
	r.Name = strings.TrimSpace(r.Name)
	r.Location = strings.TrimSpace(r.Location)
}

func (r *CreateShelfRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be 128 characters or less")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// ShelfResponse is the API shape of a shelf.
type ShelfResponse struct {
	ID        string    `json:"id"`
	UnitID    string    `json:"unit_id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToShelfResponse converts a shelf for the API.
func ToShelfResponse(s *Shelf) ShelfResponse {
	return ShelfResponse{
		ID:        s.ID.String(),
		UnitID:    s.UnitID.String(),
		Name:      s.Name,
		Location:  s.Location,
		CreatedAt: s.CreatedAt,
	}
}
