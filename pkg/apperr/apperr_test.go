package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomy(t *testing.T) {
	validation := Validation("amount must be positive")
	notFound := NotFound("bill not found")
	forbidden := Forbidden("not your team")

	assert.True(t, IsValidation(validation))
	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsForbidden(forbidden))

	assert.False(t, IsValidation(notFound))
	assert.False(t, IsNotFound(forbidden))
	assert.False(t, IsForbidden(validation))

	assert.Equal(t, "amount must be positive", validation.Error())
}

func TestWrappedErrorsKeepTheirKind(t *testing.T) {
	sentinel := NotFound("split not found")
	wrapped := fmt.Errorf("settling bill: %w", sentinel)

	assert.True(t, IsNotFound(wrapped))
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, IsValidation(wrapped))
}

func TestPlainErrorsMatchNothing(t *testing.T) {
	err := errors.New("connection reset")

	assert.False(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))
}
