package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "malkhana/pkg/domain-errors"
)

func TestCreateItemRequestValidate(t *testing.T) {
	t.Run("black ink needs no numbering fields", func(t *testing.T) {
		req := &CreateItemRequest{Description: "seized phone"}
		req.Normalize()
		require.NoError(t, req.Validate())
		assert.Equal(t, RegistryTypeBlackInk, req.EffectiveRegistryType())
	})

	t.Run("normalizes registry type case", func(t *testing.T) {
		req := &CreateItemRequest{RegistryType: " red_ink ", MotherNumber: 3, RegistryYear: 2024}
		req.Normalize()
		require.NoError(t, req.Validate())
		assert.Equal(t, RegistryTypeRedInk, req.EffectiveRegistryType())
	})

	t.Run("red ink requires mother number and year", func(t *testing.T) {
		req := &CreateItemRequest{RegistryType: "RED_INK", RegistryYear: 2024}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		req = &CreateItemRequest{RegistryType: "RED_INK", MotherNumber: 3}
		req.Normalize()
		err = req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects unknown registry type", func(t *testing.T) {
		req := &CreateItemRequest{RegistryType: "GREEN_INK"}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("enforces size limits", func(t *testing.T) {
		req := &CreateItemRequest{Description: strings.Repeat("a", 2001)}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("nil request", func(t *testing.T) {
		var req *CreateItemRequest
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestUpdateItemRequestValidate(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("accepts valid status", func(t *testing.T) {
		req := &UpdateItemRequest{Status: strPtr("transferred")}
		req.Normalize()
		require.NoError(t, req.Validate())
		assert.Equal(t, "TRANSFERRED", *req.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		req := &UpdateItemRequest{Status: strPtr("LOST")}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("trims field updates", func(t *testing.T) {
		req := &UpdateItemRequest{Description: strPtr("  new text  ")}
		req.Normalize()
		require.NoError(t, req.Validate())
		assert.Equal(t, "new text", *req.Description)
	})

	t.Run("enforces size limits", func(t *testing.T) {
		req := &UpdateItemRequest{CaseNumber: strPtr(strings.Repeat("x", 65))}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestDisposeItemRequestValidate(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		req := &DisposeItemRequest{Reason: "   "}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("caps reason length", func(t *testing.T) {
		req := &DisposeItemRequest{Reason: strings.Repeat("r", 501)}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("valid", func(t *testing.T) {
		req := &DisposeItemRequest{Reason: "destroyed per court order", ApprovedBy: "SP City"}
		req.Normalize()
		require.NoError(t, req.Validate())
	})
}

func TestYearTransitionRequestValidate(t *testing.T) {
	require.Error(t, (&YearTransitionRequest{}).Validate())
	require.Error(t, (&YearTransitionRequest{NewYear: -1}).Validate())
	require.NoError(t, (&YearTransitionRequest{NewYear: 2025}).Validate())
}
