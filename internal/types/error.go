package types

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	AlreadyRegistered    ErrorCode = "ALREADY_REGISTERED"
	NotRegistered        ErrorCode = "NOT_REGISTERED"
	NothingStaked        ErrorCode = "NOTHING_STAKED"
	InsufficientStake    ErrorCode = "INSUFFICIENT_STAKE"
	InsufficientBalance  ErrorCode = "INSUFFICIENT_BALANCE"
	RegistryExceeded     ErrorCode = "REGISTRY_EXCEEDED"
	OperationsPaused     ErrorCode = "OPERATIONS_PAUSED"
	WithdrawalsPaused    ErrorCode = "WITHDRAWALS_PAUSED"
	ProgramCallerDenied  ErrorCode = "PROGRAM_CALLER_DENIED"
	Unauthorized         ErrorCode = "UNAUTHORIZED"
)

// Error carries the HTTP status and internal error code alongside the
// underlying error so handlers can map service failures onto responses
// without inspecting error strings.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.ErrorCode.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  InternalServiceError,
		Err:        err,
	}
}

func NewValidationFailedError(err error) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  ValidationError,
		Err:        err,
	}
}

// HasErrorCode reports whether err is a *types.Error carrying the given code.
func HasErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.ErrorCode == code
	}
	return false
}

func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		fmt.Fprintf(s, "%s (%s)", e.Error(), e.ErrorCode)
	case 's':
		fmt.Fprint(s, e.Error())
	}
}
