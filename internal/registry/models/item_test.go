package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "malkhana/pkg/domain"
	dErrors "malkhana/pkg/domain-errors"
)

func TestFormatMotherNumber(t *testing.T) {
	assert.Equal(t, "2025-00001", FormatMotherNumber(2025, 1))
	assert.Equal(t, "2024-00042", FormatMotherNumber(2024, 42))
	assert.Equal(t, "2024-123456", FormatMotherNumber(2024, 123456))
}

func TestParseMotherNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantYear int
		wantSeq  int
		wantErr  bool
	}{
		{name: "padded", input: "2025-00017", wantYear: 2025, wantSeq: 17},
		{name: "unpadded", input: "2025-17", wantYear: 2025, wantSeq: 17},
		{name: "surrounding whitespace", input: "  2024-00003  ", wantYear: 2024, wantSeq: 3},
		{name: "missing dash", input: "202500017", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "non-numeric year", input: "abcd-00017", wantErr: true},
		{name: "non-numeric sequence", input: "2025-xyz", wantErr: true},
		{name: "zero sequence", input: "2025-00000", wantErr: true},
		{name: "negative year", input: "-5-00017", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			year, seq, err := ParseMotherNumber(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantYear, year)
			assert.Equal(t, tc.wantSeq, seq)
		})
	}
}

func TestParseRegistryType(t *testing.T) {
	got, err := ParseRegistryType("")
	require.NoError(t, err)
	assert.Equal(t, RegistryTypeBlackInk, got)

	got, err = ParseRegistryType("red_ink")
	require.NoError(t, err)
	assert.Equal(t, RegistryTypeRedInk, got)

	_, err = ParseRegistryType("GREEN_INK")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestItemStatus(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.False(t, ItemStatus("LOST").IsValid())

	assert.True(t, StatusDisposed.IsTerminal())
	assert.False(t, StatusTransferred.IsTerminal())
	assert.False(t, StatusReleased.IsTerminal())
}

func TestDisposalTransition(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	item, err := NewBlackInkItem(id.ItemID(uuid.New()), id.UnitID(uuid.New()), 2025, 1, ItemDetails{}, id.UserID(uuid.New()), now)
	require.NoError(t, err)

	require.NoError(t, item.CanDispose())

	item.ApplyDisposal(Disposal{Reason: "destroyed", ApprovedBy: "SP"}, now)
	assert.Equal(t, StatusDisposed, item.Status)
	require.NotNil(t, item.DisposedAt)
	assert.Equal(t, now, *item.DisposedAt)
	assert.Equal(t, "destroyed", item.DisposalReason)

	err = item.CanDispose()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestApplyDisposalKeepsSuppliedDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	earlier := now.AddDate(0, -1, 0)
	item, err := NewBlackInkItem(id.ItemID(uuid.New()), id.UnitID(uuid.New()), 2025, 1, ItemDetails{}, id.UserID(uuid.New()), now)
	require.NoError(t, err)

	item.ApplyDisposal(Disposal{DisposedAt: earlier, Reason: "auctioned"}, now)
	require.NotNil(t, item.DisposedAt)
	assert.Equal(t, earlier, *item.DisposedAt)
	assert.Equal(t, now, item.UpdatedAt)
}

func TestNewItemConstructors(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	unitID := id.UnitID(uuid.New())

	black, err := NewBlackInkItem(id.ItemID(uuid.New()), unitID, 2025, 7, ItemDetails{Description: "seized phone"}, id.UserID(uuid.New()), now)
	require.NoError(t, err)
	assert.Equal(t, "2025-00007", black.MotherNumber())
	assert.Equal(t, 7, black.RegistryNumber)
	assert.Equal(t, 2025, black.RegistryYear)
	assert.Equal(t, StatusActive, black.Status)

	red, err := NewRedInkItem(id.ItemID(uuid.New()), unitID, 3, 2024, ItemDetails{}, id.UserID(uuid.New()), now)
	require.NoError(t, err)
	assert.Equal(t, "2024-00003", red.MotherNumber())
	assert.Equal(t, 3, red.RegistryNumber)
	assert.Equal(t, 2024, red.RegistryYear)

	_, err = NewBlackInkItem(id.ItemID(uuid.New()), id.UnitID{}, 2025, 1, ItemDetails{}, id.UserID{}, now)
	require.Error(t, err)

	_, err = NewRedInkItem(id.ItemID(uuid.New()), unitID, 0, 2024, ItemDetails{}, id.UserID{}, now)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
