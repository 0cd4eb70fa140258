package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "malkhana/pkg/domain-errors"
)

func TestParseIDs(t *testing.T) {
	raw := uuid.New()

	unitID, err := ParseUnitID(raw.String())
	require.NoError(t, err)
	assert.Equal(t, raw.String(), unitID.String())
	assert.False(t, unitID.IsZero())

	for _, input := range []string{"", "not-a-uuid", uuid.Nil.String()} {
		_, err := ParseItemID(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	}

	assert.True(t, ItemID{}.IsZero())
	assert.True(t, UserID{}.IsZero())
}

func TestUnitScope(t *testing.T) {
	unitID := UnitID(uuid.New())
	otherID := UnitID(uuid.New())

	scoped := ScopedUnit(unitID)
	assert.False(t, scoped.IsUnrestricted())
	assert.True(t, scoped.Allows(unitID))
	assert.False(t, scoped.Allows(otherID))

	got, ok := scoped.UnitID()
	require.True(t, ok)
	assert.Equal(t, unitID, got)

	admin := Unrestricted()
	assert.True(t, admin.IsUnrestricted())
	assert.True(t, admin.Allows(unitID))
	assert.True(t, admin.Allows(otherID))

	_, ok = admin.UnitID()
	assert.False(t, ok)
	assert.Equal(t, "unrestricted", admin.String())
}
