package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "student not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "student not found", err.Error())
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorNormalises(t *testing.T) {
	plain := fmt.Errorf("boom")
	appErr := FromError(plain)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, plain)

	timeout := FromError(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrUnavailable.Code, timeout.Code)
	assert.Equal(t, http.StatusServiceUnavailable, timeout.Status)

	wrapped := fmt.Errorf("outer: %w", Clone(ErrValidation, "bad"))
	assert.Equal(t, ErrValidation.Code, FromError(wrapped).Code)
	assert.Nil(t, FromError(nil))
}

func TestInternalSurfacesDeadlineAsUnavailable(t *testing.T) {
	assert.Equal(t, ErrUnavailable.Code, Internal(context.DeadlineExceeded, "x").Code)
	assert.Equal(t, ErrInternal.Code, Internal(errors.New("db down"), "x").Code)
}
