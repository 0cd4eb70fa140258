package models

import (
	"strings"
	"time"

	dErrors "malkhana/pkg/domain-errors"
)

const (
	maxCaseNumberLen   = 64
	maxDescriptionLen  = 2000
	maxCategoryLen     = 128
	maxReceivedFromLen = 255
	maxReasonLen       = 500
)

// CreateItemRequest is the payload for filing a new evidence item.
//
// UnitID is only honored for administrator callers; scoped callers always
// file into their own unit. MotherNumber and RegistryYear are required for
// Red Ink back-filing and ignored for Black Ink, whose numbering is
// generated.
type CreateItemRequest struct {
	RegistryType string `json:"registry_type"`
	MotherNumber int    `json:"mother_number,omitempty"`
	RegistryYear int    `json:"registry_year,omitempty"`
	UnitID       string `json:"unit_id,omitempty"`
	ShelfID      string `json:"shelf_id,omitempty"`
	CaseNumber   string `json:"case_number"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ReceivedFrom string `json:"received_from"`
}

func (r *CreateItemRequest) Normalize() {
	if r == nil {
		return
	}
	r.RegistryType = strings.ToUpper(strings.TrimSpace(r.RegistryType))
	r.UnitID = strings.TrimSpace(r.UnitID)
	r.ShelfID = strings.TrimSpace(r.ShelfID)
	r.CaseNumber = strings.TrimSpace(r.CaseNumber)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.ReceivedFrom = strings.TrimSpace(r.ReceivedFrom)
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *CreateItemRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if len(r.CaseNumber) > maxCaseNumberLen {
		return dErrors.New(dErrors.CodeValidation, "case number must be 64 characters or less")
	}
	if len(r.Description) > maxDescriptionLen {
		return dErrors.New(dErrors.CodeValidation, "description must be 2000 characters or less")
	}
	if len(r.Category) > maxCategoryLen {
		return dErrors.New(dErrors.CodeValidation, "category must be 128 characters or less")
	}
	if len(r.ReceivedFrom) > maxReceivedFromLen {
		return dErrors.New(dErrors.CodeValidation, "received_from must be 255 characters or less")
	}

	registryType, err := ParseRegistryType(r.RegistryType)
	if err != nil {
		return err
	}

	if registryType == RegistryTypeRedInk {
		if r.MotherNumber <= 0 {
			return dErrors.New(dErrors.CodeValidation, "mother_number is required for red ink items and must be positive")
		}
		if r.RegistryYear <= 0 {
			return dErrors.New(dErrors.CodeValidation, "registry_year is required for red ink items and must be positive")
		}
	}

	return nil
}

// EffectiveRegistryType resolves the registry type, defaulting to Black Ink.
// Call Validate first.
func (r *CreateItemRequest) EffectiveRegistryType() RegistryType {
	t, err := ParseRegistryType(r.RegistryType)
	if err != nil {
		return RegistryTypeBlackInk
	}
	return t
}

// Details extracts the descriptive fields.
func (r *CreateItemRequest) Details() ItemDetails {
	return ItemDetails{
		CaseNumber:   r.CaseNumber,
		Description:  r.Description,
		Category:     r.Category,
		ReceivedFrom: r.ReceivedFrom,
	}
}

// UpdateItemRequest is the payload for a generic field update. Nil pointers
// leave the field unchanged. Setting status to DISPOSED is rejected here;
// disposal must go through the dispose operation so renumbering always fires.
type UpdateItemRequest struct {
	Status       *string `json:"status,omitempty"`
	CaseNumber   *string `json:"case_number,omitempty"`
	Description  *string `json:"description,omitempty"`
	Category     *string `json:"category,omitempty"`
	ReceivedFrom *string `json:"received_from,omitempty"`
}

func (r *UpdateItemRequest) Normalize() {
	if r == nil {
		return
	}
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	if r.Status != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
	r.CaseNumber = trim(r.CaseNumber)
	r.Description = trim(r.Description)
	r.Category = trim(r.Category)
	r.ReceivedFrom = trim(r.ReceivedFrom)
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *UpdateItemRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if r.CaseNumber != nil && len(*r.CaseNumber) > maxCaseNumberLen {
		return dErrors.New(dErrors.CodeValidation, "case number must be 64 characters or less")
	}
	if r.Description != nil && len(*r.Description) > maxDescriptionLen {
		return dErrors.New(dErrors.CodeValidation, "description must be 2000 characters or less")
	}
	if r.Category != nil && len(*r.Category) > maxCategoryLen {
		return dErrors.New(dErrors.CodeValidation, "category must be 128 characters or less")
	}
	if r.ReceivedFrom != nil && len(*r.ReceivedFrom) > maxReceivedFromLen {
		return dErrors.New(dErrors.CodeValidation, "received_from must be 255 characters or less")
	}

	if r.Status != nil {
		status := ItemStatus(*r.Status)
		if !status.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "status must be one of ACTIVE, DISPOSED, TRANSFERRED, RELEASED")
		}
	}

	return nil
}

// DisposeItemRequest carries the metadata for taking an item out of custody.
type DisposeItemRequest struct {
	DisposedAt *time.Time `json:"disposed_at,omitempty"`
	Reason     string     `json:"reason"`
	ApprovedBy string     `json:"approved_by"`
}

func (r *DisposeItemRequest) Normalize() {
	if r == nil {
		return
	}
	r.Reason = strings.TrimSpace(r.Reason)
	r.ApprovedBy = strings.TrimSpace(r.ApprovedBy)
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *DisposeItemRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if len(r.Reason) > maxReasonLen {
		return dErrors.New(dErrors.CodeValidation, "reason must be 500 characters or less")
	}
	if len(r.ApprovedBy) > maxReceivedFromLen {
		return dErrors.New(dErrors.CodeValidation, "approved_by must be 255 characters or less")
	}

	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}

	return nil
}

// Disposal converts the request into the disposal metadata applied to the item.
func (r *DisposeItemRequest) Disposal() Disposal {
	d := Disposal{Reason: r.Reason, ApprovedBy: r.ApprovedBy}
	if r.DisposedAt != nil {
		d.DisposedAt = *r.DisposedAt
	}
	return d
}

// AssignShelfRequest moves an item onto a shelf in its unit's malkhana room.
type AssignShelfRequest struct {
	ShelfID string `json:"shelf_id"`
}

func (r *AssignShelfRequest) Normalize() {
	if r == nil {
		return
	}
	r.ShelfID = strings.TrimSpace(r.ShelfID)
}

func (r *AssignShelfRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.ShelfID == "" {
		return dErrors.New(dErrors.CodeValidation, "shelf_id is required")
	}
	return nil
}

// YearTransitionRequest closes out a year, moving its Black Ink items into
// the Red Ink register.
type YearTransitionRequest struct {
	NewYear int `json:"new_year"`
}

func (r *YearTransitionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.NewYear <= 0 {
		return dErrors.New(dErrors.CodeValidation, "new_year is required and must be positive")
	}
	return nil
}
