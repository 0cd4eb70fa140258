// Package domain holds typed identifiers and scoping values shared across
// modules. Construct IDs via the Parse* functions at trust boundaries;
// direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "malkhana/pkg/domain-errors"
)

// Typed IDs prevent cross-entity assignment at compile time.
type (
	// UserID identifies an authenticated user.
	UserID uuid.UUID
	// UnitID identifies a police unit owning records.
	UnitID uuid.UUID
	// ItemID identifies an evidence item.
	ItemID uuid.UUID
	// ShelfID identifies a shelf in a unit's malkhana room.
	ShelfID uuid.UUID
	// EventID identifies a renumber-history event.
	EventID uuid.UUID
)

func (id UserID) String() string  { return uuid.UUID(id).String() }
func (id UnitID) String() string  { return uuid.UUID(id).String() }
func (id ItemID) String() string  { return uuid.UUID(id).String() }
func (id ShelfID) String() string { return uuid.UUID(id).String() }
func (id EventID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id UnitID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ItemID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ShelfID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id cannot be empty", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s id", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id cannot be nil", kind)
	}
	return u, nil
}

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user")
	return UserID(u), err
}

// ParseUnitID constructs a UnitID from external input.
func ParseUnitID(s string) (UnitID, error) {
	u, err := parseUUID(s, "unit")
	return UnitID(u), err
}

// ParseItemID constructs an ItemID from external input.
func ParseItemID(s string) (ItemID, error) {
	u, err := parseUUID(s, "item")
	return ItemID(u), err
}

// ParseShelfID constructs a ShelfID from external input.
func ParseShelfID(s string) (ShelfID, error) {
	u, err := parseUUID(s, "shelf")
	return ShelfID(u), err
}
