package models

import "time"

// ItemResponse is the API shape of an evidence item.
type ItemResponse struct {
	ID                 string                  `json:"id"`
	MotherNumber       string                  `json:"mother_number"`
	RegistryType       string                  `json:"registry_type"`
	RegistryNumber     int                     `json:"registry_number"`
	RegistryYear       int                     `json:"registry_year"`
	UnitID             string                  `json:"unit_id"`
	Status             string                  `json:"status"`
	ShelfID            *string                 `json:"shelf_id,omitempty"`
	CaseNumber         string                  `json:"case_number,omitempty"`
	Description        string                  `json:"description,omitempty"`
	Category           string                  `json:"category,omitempty"`
	ReceivedFrom       string                  `json:"received_from,omitempty"`
	DisposedAt         *time.Time              `json:"disposed_at,omitempty"`
	DisposalReason     string                  `json:"disposal_reason,omitempty"`
	DisposalApprovedBy string                  `json:"disposal_approved_by,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
	RedInkHistory      []RenumberEventResponse `json:"red_ink_history,omitempty"`
}

// RenumberEventResponse is the API shape of one vacated registry number.
type RenumberEventResponse struct {
	Year      int       `json:"year"`
	RedInkID  int       `json:"red_ink_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToItemResponse converts an item for the API.
func ToItemResponse(i *EvidenceItem) ItemResponse {
	resp := ItemResponse{
		ID:                 i.ID.String(),
		MotherNumber:       i.MotherNumber(),
		RegistryType:       i.RegistryType.String(),
		RegistryNumber:     i.RegistryNumber,
		RegistryYear:       i.RegistryYear,
		UnitID:             i.UnitID.String(),
		Status:             string(i.Status),
		CaseNumber:         i.Details.CaseNumber,
		Description:        i.Details.Description,
		Category:           i.Details.Category,
		ReceivedFrom:       i.Details.ReceivedFrom,
		DisposedAt:         i.DisposedAt,
		DisposalReason:     i.DisposalReason,
		DisposalApprovedBy: i.DisposalApprovedBy,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
	if i.ShelfID != nil {
		s := i.ShelfID.String()
		resp.ShelfID = &s
	}
	for _, ev := range i.RedInkHistory {
		resp.RedInkHistory = append(resp.RedInkHistory, RenumberEventResponse{
			Year:      ev.Year,
			RedInkID:  ev.RedInkID,
			CreatedAt: ev.CreatedAt,
		})
	}
	return resp
}

// ToItemResponses converts a list of items for the API.
func ToItemResponses(items []*EvidenceItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ToItemResponse(i))
	}
	return out
}

// Stats summarizes a unit's registers (or all units for administrators).
type Stats struct {
	BlackInkCount int `json:"black_ink_count"`
	RedInkCount   int `json:"red_ink_count"`
	DisposedCount int `json:"disposed_count"`
	RecentCount   int `json:"recent_count"`
}

// YearTransitionResult reports the outcome of closing out a year.
// Zero eligible items is a success, not an error.
type YearTransitionResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	ItemsTransitioned int    `json:"items_transitioned"`
	PreviousYear      int    `json:"previous_year"`
	NewYear           int    `json:"new_year"`
}
