package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Auth("missing token"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{NotFound("no such donation"), http.StatusNotFound},
		{Conflict("already liked"), http.StatusConflict},
		{InsufficientFunds("balance too low"), http.StatusUnprocessableEntity},
		{InvalidAmount("amount must be positive"), http.StatusBadRequest},
		{AllocationOverflow("over 100%"), http.StatusUnprocessableEntity},
		{NoActivePreferences("no allocations"), http.StatusUnprocessableEntity},
		{OrgUnresolvable("empty reference"), http.StatusBadRequest},
		{DirectoryUnavailable(errors.New("timeout")), http.StatusBadGateway},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status(), "kind %s", tc.err.Kind)
	}
}

func TestKindOfUnwrapsChain(t *testing.T) {
	err := fmt.Errorf("donate: %w", InsufficientFunds("balance too low"))
	assert.Equal(t, KindInsufficientFunds, KindOf(err))
	assert.True(t, Is(err, KindInsufficientFunds))
	assert.False(t, Is(err, KindConflict))
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := DirectoryUnavailable(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
