package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasErrorCode(t *testing.T) {
	err := NewErrorWithMsg(http.StatusConflict, AlreadyRegistered, "taken")

	assert.True(t, HasErrorCode(err, AlreadyRegistered))
	assert.False(t, HasErrorCode(err, NotRegistered))
	assert.False(t, HasErrorCode(errors.New("plain"), AlreadyRegistered))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, HasErrorCode(wrapped, AlreadyRegistered))
}

func TestErrorMessage(t *testing.T) {
	withErr := NewError(http.StatusBadRequest, ValidationError, errors.New("bad input"))
	assert.Equal(t, "bad input", withErr.Error())

	withoutErr := &Error{StatusCode: http.StatusBadRequest, ErrorCode: ValidationError}
	assert.Equal(t, "VALIDATION_ERROR", withoutErr.Error())
}
