package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternError(t *testing.T) {
	t.Parallel()

	err := NewPatternError("/users/{id", "unbalanced brace")
	assert.Contains(t, err.Error(), "/users/{id")
	assert.Contains(t, err.Error(), "unbalanced brace")
	assert.True(t, errors.Is(err, ErrConfigInvalid))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestPatternError_WithCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("missing closing )")
	err := NewPatternErrorWithCause("/a/{b}", "invalid pattern", cause)
	assert.Contains(t, err.Error(), "missing closing )")
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestRouteNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewRouteNotFoundError("/nope")
	assert.Contains(t, err.Error(), "/nope")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))

	var target *RouteNotFoundError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "/nope", target.Path)
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	err := NewConfigError("routes[0].name", "must not be empty")
	assert.Contains(t, err.Error(), "routes[0].name")
	assert.True(t, errors.Is(err, ErrConfigInvalid))

	wrapped := NewConfigErrorWithCause("routes", "load failed", ErrInvalidInput)
	assert.True(t, errors.Is(wrapped, ErrInvalidInput))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, WrapError(nil, "context"))

	err := WrapError(ErrNotFound, "resolving /x")
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("resolving /x: %v", ErrNotFound), err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}
