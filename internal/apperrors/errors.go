package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing or invalid session token.
var ErrUnauthorized = errors.New("unauthorized access")

// ErrForbidden indicates the caller lacks the role required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Business-rule failures of the ledger mutation paths. These are "soft"
// errors: handlers translate them into a 200 response carrying an
// errorMessage payload, which is the contract the PocketPay frontends
// branch on.
var (
	// ErrInvalidUser indicates the receiver account does not exist.
	ErrInvalidUser = errors.New("invalid user")
	// ErrInvalidAgent indicates the target account does not exist or is not an agent.
	ErrInvalidAgent = errors.New("invalid agent")
	// ErrWrongPin indicates the supplied PIN does not match the stored hash.
	ErrWrongPin = errors.New("wrong pin")
	// ErrInvalidState indicates a cash-in request is no longer pending.
	ErrInvalidState = errors.New("request is no longer pending")
)

// AppError carries a status code alongside a message and an optional cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
