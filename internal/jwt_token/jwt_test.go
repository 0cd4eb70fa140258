package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "malkhana/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-key", "malkhana-test")
	userID := uuid.New()
	unitID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, &unitID, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, unitID.String(), claims.UnitID)
	assert.Equal(t, "malkhana-test", claims.Issuer)
}

func TestAdministratorTokenHasNoUnit(t *testing.T) {
	svc := NewJWTService("test-key", "malkhana-test")

	token, err := svc.GenerateAccessToken(uuid.New(), nil, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.UnitID)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-key", "malkhana-test")

	token, err := svc.GenerateAccessToken(uuid.New(), nil, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := NewJWTService("key-one", "malkhana-test").GenerateAccessToken(uuid.New(), nil, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTService("key-two", "malkhana-test").ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
