package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	errGone := New(ErrNotFound, "Good not found")

	assert.Equal(t, "Good not found", errGone.Error())
	assert.ErrorIs(t, errGone, ErrNotFound)
	assert.NotErrorIs(t, errGone, ErrConflict)

	wrapped := fmt.Errorf("load: %w", errGone)
	assert.ErrorIs(t, wrapped, errGone)
	assert.ErrorIs(t, wrapped, ErrNotFound)

	var ae *Error
	assert.True(t, errors.As(wrapped, &ae))
}
