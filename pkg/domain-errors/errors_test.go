package dErrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndWrap(t *testing.T) {
	base := New(CodeNotFound, "item not found")
	assert.Equal(t, "not_found: item not found", base.Error())
	assert.True(t, HasCode(base, CodeNotFound))
	assert.False(t, HasCode(base, CodeConflict))

	wrapped := Wrap(base, CodeInternal, "failed to load item")
	assert.True(t, HasCode(wrapped, CodeInternal))
	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.True(t, errors.Is(wrapped, base))

	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestWrapPreservesSentinels(t *testing.T) {
	sentinel := errors.New("no rows")
	wrapped := Wrap(fmt.Errorf("query: %w", sentinel), CodeInternal, "lookup failed")
	assert.True(t, Is(wrapped, sentinel))
}

func TestCodeOfAndMessageOf(t *testing.T) {
	err := Newf(CodeConflict, "mother number %s already exists", "2025-00001")
	assert.Equal(t, CodeConflict, CodeOf(err))
	assert.Equal(t, "mother number 2025-00001 already exists", MessageOf(err))

	plain := errors.New("disk full")
	assert.Equal(t, CodeInternal, CodeOf(plain))
	assert.Equal(t, "internal error", MessageOf(plain))

	outer := Wrap(New(CodeNotFound, "item not found"), CodeInternal, "failed to load item")
	require.Equal(t, CodeInternal, CodeOf(outer))
	assert.Equal(t, "failed to load item", MessageOf(outer))
}
