package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBusinessError_Messages(t *testing.T) {
	assert.Equal(t, MsgUserCancelled, NewBusinessError(CodeUserCancelled, "").Message)
	assert.Equal(t, "custom", NewBusinessError(CodeUserCancelled, "custom").Message)
	assert.Equal(t, MsgSystemError, NewBusinessError(12345, "").Message)
}

func TestBusinessError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewBusinessError(CodeInvalidParameter, MsgSelectInvalidParameter))
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	assert.False(t, errors.Is(err, ErrSystem))

	var be *BusinessError
	assert.True(t, errors.As(err, &be))
	assert.Equal(t, CodeInvalidParameter, be.Code)
	assert.Equal(t, MsgSelectInvalidParameter, be.Message)
}
