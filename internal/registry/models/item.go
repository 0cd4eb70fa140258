package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
)

// RegistryType says which physical register an item is filed in.
type RegistryType string

const (
	// RegistryTypeBlackInk is the current-year active filing register.
	// Registry numbers are stable once assigned.
	RegistryTypeBlackInk RegistryType = "BLACK_INK"
	// RegistryTypeRedInk is the historical/overflow register. Registry
	// numbers form a dense rank that compacts when an item is disposed.
	RegistryTypeRedInk RegistryType = "RED_INK"
)

var validRegistryTypes = map[RegistryType]bool{
	RegistryTypeBlackInk: true,
	RegistryTypeRedInk:   true,
}

// ParseRegistryType constructs a RegistryType from external input.
// Empty input defaults to Black Ink.
func ParseRegistryType(s string) (RegistryType, error) {
	if s == "" {
		return RegistryTypeBlackInk, nil
	}
	t := RegistryType(strings.ToUpper(strings.TrimSpace(s)))
	if !validRegistryTypes[t] {
		return "", dErrors.New(dErrors.CodeValidation, "registry type must be 'BLACK_INK' or 'RED_INK'")
	}
	return t, nil
}

func (t RegistryType) IsValid() bool {
	return validRegistryTypes[t]
}

func (t RegistryType) String() string {
	return string(t)
}

// ItemStatus is the custody state of an evidence item.
type ItemStatus string

const (
	StatusActive      ItemStatus = "ACTIVE"
	StatusDisposed    ItemStatus = "DISPOSED"
	StatusTransferred ItemStatus = "TRANSFERRED"
	StatusReleased    ItemStatus = "RELEASED"
)

var validStatuses = map[ItemStatus]bool{
	StatusActive:      true,
	StatusDisposed:    true,
	StatusTransferred: true,
	StatusReleased:    true,
}

func (s ItemStatus) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal reports whether the status admits no further transitions.
// Disposal is the only terminal state.
func (s ItemStatus) IsTerminal() bool {
	return s == StatusDisposed
}

// ItemDetails carries the descriptive fields of an item. They are audited
// and searchable but carry no numbering significance.
type ItemDetails struct {
	CaseNumber   string
	Description  string
	Category     string
	ReceivedFrom string
}

// EvidenceItem is the aggregate root for a piece of evidence in custody.
//
// Invariants:
//   - The mother number (MotherYear, MotherSeq) is assigned exactly once, at
//     creation, and never changes afterward, regardless of registry type
//     transitions. It is globally unique across all units.
//   - RegistryNumber is mutable; its meaning depends on RegistryType. For
//     Black Ink it is stable within a year. For Red Ink the ACTIVE items of
//     a unit always hold the dense set {1..k} after renumbering completes.
//   - A DISPOSED item's RegistryNumber is frozen at disposal; the item is
//     never renumbered again.
type EvidenceItem struct {
	ID id.ItemID

	// MotherYear and MotherSeq together form the mother number. Keeping the
	// sequence as an integer makes max-finding numeric by construction; the
	// formatted string is derived, never stored.
	MotherYear int
	MotherSeq  int

	RegistryType   RegistryType
	RegistryNumber int
	RegistryYear   int

	UnitID  id.UnitID
	Status  ItemStatus
	ShelfID *id.ShelfID

	Details ItemDetails

	DisposedAt         *time.Time
	DisposalReason     string
	DisposalApprovedBy string

	CreatedBy id.UserID
	CreatedAt time.Time
	UpdatedAt time.Time

	// RedInkHistory holds every registry number this item vacated during
	// Red Ink renumbering, oldest first. Owned by the item.
	RedInkHistory []RenumberEvent
}

// MotherNumber renders the permanent identifier, e.g. "2025-00042".
func (i *EvidenceItem) MotherNumber() string {
	return FormatMotherNumber(i.MotherYear, i.MotherSeq)
}

// FormatMotherNumber renders a mother number from its parts.
func FormatMotherNumber(year, seq int) string {
	return fmt.Sprintf("%d-%05d", year, seq)
}

// ParseMotherNumber splits a formatted mother number into year and sequence.
// The sequence is compared numerically everywhere, so zero padding in the
// input is accepted but not required.
func ParseMotherNumber(s string) (year, seq int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, dErrors.New(dErrors.CodeInvalidInput, "mother number must be of the form {year}-{sequence}")
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return 0, 0, dErrors.New(dErrors.CodeInvalidInput, "mother number year must be a positive integer")
	}
	seq, err = strconv.Atoi(parts[1])
	if err != nil || seq <= 0 {
		return 0, 0, dErrors.New(dErrors.CodeInvalidInput, "mother number sequence must be a positive integer")
	}
	return year, seq, nil
}

// NewBlackInkItem files a new item in the current-year Black Ink register.
// seq is the next free sequence for the unit and year; it doubles as the
// registry number.
func NewBlackInkItem(itemID id.ItemID, unitID id.UnitID, year, seq int, details ItemDetails, createdBy id.UserID, now time.Time) (*EvidenceItem, error) {
	if unitID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "unit is required")
	}
	if year <= 0 || seq <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "mother number parts must be positive")
	}
	return &EvidenceItem{
		ID:             itemID,
		MotherYear:     year,
		MotherSeq:      seq,
		RegistryType:   RegistryTypeBlackInk,
		RegistryNumber: seq,
		RegistryYear:   year,
		UnitID:         unitID,
		Status:         StatusActive,
		Details:        details,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewRedInkItem back-files an item directly into the Red Ink register with a
// caller-supplied mother number and registry year.
func NewRedInkItem(itemID id.ItemID, unitID id.UnitID, motherSeq, registryYear int, details ItemDetails, createdBy id.UserID, now time.Time) (*EvidenceItem, error) {
	if unitID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "unit is required")
	}
	if motherSeq <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "mother number is required for red ink items")
	}
	if registryYear <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "registry year is required for red ink items")
	}
	return &EvidenceItem{
		ID:             itemID,
		MotherYear:     registryYear,
		MotherSeq:      motherSeq,
		RegistryType:   RegistryTypeRedInk,
		RegistryNumber: motherSeq,
		RegistryYear:   registryYear,
		UnitID:         unitID,
		Status:         StatusActive,
		Details:        details,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CanDispose checks whether the item can transition to disposed.
// Use with ApplyDisposal inside a store transaction.
func (i *EvidenceItem) CanDispose() error {
	if i.Status == StatusDisposed {
		return dErrors.New(dErrors.CodeInvariantViolation, "item is already disposed")
	}
	return nil
}

// ApplyDisposal freezes the item in the disposed state with its metadata.
// Call CanDispose first to validate the transition.
func (i *EvidenceItem) ApplyDisposal(d Disposal, now time.Time) {
	i.Status = StatusDisposed
	disposedAt := d.DisposedAt
	if disposedAt.IsZero() {
		disposedAt = now
	}
	i.DisposedAt = &disposedAt
	i.DisposalReason = d.Reason
	i.DisposalApprovedBy = d.ApprovedBy
	i.UpdatedAt = now
}

// Disposal carries the metadata recorded when an item leaves custody.
type Disposal struct {
	DisposedAt time.Time
	Reason     string
	ApprovedBy string
}

// RenumberEvent records one registry number an item vacated during Red Ink
// renumbering or a defensive year-transition snapshot. Owned exclusively by
// its item.
type RenumberEvent struct {
	ID        id.EventID
	ItemID    id.ItemID
	Year      int
	RedInkID  int
	CreatedAt time.Time
}
