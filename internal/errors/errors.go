package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidAmount           ErrorCode = "invalid_amount"
	InsufficientFunds       ErrorCode = "insufficient_funds"
	LimitExceeded           ErrorCode = "limit_exceeded"
	WithdrawalCountExceeded ErrorCode = "withdrawal_count_exceeded"
	ClientNotFound          ErrorCode = "client_not_found"
	DuplicateClient         ErrorCode = "duplicate_client"
	NoAccountForClient      ErrorCode = "no_account_for_client"
	InvalidSelection        ErrorCode = "invalid_selection"
	InvalidInput            ErrorCode = "invalid_input"
	PersistenceError        ErrorCode = "persistence_error"
	InternalError           ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an AppError carrying the same code, so copies
// produced by WithDetails still match the predefined errors below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails returns a copy of e carrying details; e itself is left untouched.
func (e *AppError) WithDetails(details string) *AppError {
	c := *e
	c.Details = details
	return &c
}

// HTTPStatus maps the error code to the status written by the HTTP handlers.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidAmount, InvalidSelection, InvalidInput:
		return http.StatusBadRequest
	case ClientNotFound:
		return http.StatusNotFound
	case DuplicateClient:
		return http.StatusConflict
	case InsufficientFunds, LimitExceeded, WithdrawalCountExceeded, NoAccountForClient:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrInvalidAmount           = NewAppError(InvalidAmount, "invalid amount")
	ErrInsufficientFunds       = NewAppError(InsufficientFunds, "insufficient funds")
	ErrLimitExceeded           = NewAppError(LimitExceeded, "withdrawal exceeds the per-transaction limit")
	ErrWithdrawalCountExceeded = NewAppError(WithdrawalCountExceeded, "maximum number of withdrawals reached")
	ErrClientNotFound          = NewAppError(ClientNotFound, "client not found")
	ErrDuplicateClient         = NewAppError(DuplicateClient, "a client with this CPF already exists")
	ErrNoAccountForClient      = NewAppError(NoAccountForClient, "client has no account")
	ErrInvalidSelection        = NewAppError(InvalidSelection, "invalid option")
	ErrInvalidInput            = NewAppError(InvalidInput, "invalid input")
)
