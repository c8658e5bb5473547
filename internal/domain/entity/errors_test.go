package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "selectors.title", Message: "required"}
	assert.Equal(t, "validation error on field 'selectors.title': required", err.Error())
}

func TestValidationError_IsValidationFailed(t *testing.T) {
	var err error = &ValidationError{Field: "url", Message: "bad"}
	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}
