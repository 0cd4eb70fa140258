package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "malkhana/pkg/domain-errors"
)

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code dErrors.Code
		want int
	}{
		{dErrors.CodeBadRequest, http.StatusBadRequest},
		{dErrors.CodeValidation, http.StatusBadRequest},
		{dErrors.CodeInvalidInput, http.StatusBadRequest},
		{dErrors.CodeUnauthorized, http.StatusUnauthorized},
		{dErrors.CodeForbidden, http.StatusForbidden},
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeConflict, http.StatusConflict},
		{dErrors.CodeInvariantViolation, http.StatusUnprocessableEntity},
		{dErrors.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StatusForCode(tc.code), "code %s", tc.code)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeConflict, "mother number 2025-00001 already exists"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "conflict", resp.Error)
	assert.Equal(t, "mother number 2025-00001 already exists", resp.Message)
}

func TestWriteErrorHidesUncodedDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal error", resp.Message)
	assert.NotContains(t, resp.Message, "connection refused")
}
