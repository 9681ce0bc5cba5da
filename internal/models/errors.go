package models

import (
	"errors"
	"fmt"
)

// Error codes carried in the response envelope. Clients branch on these,
// the message is for display only.
const (
	CodeNotAuthenticated      = "UNAUTHENTICATED"
	CodeInvalidCredential     = "INVALID_CREDENTIAL"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeSelfFollowRejected    = "SELF_FOLLOW_REJECTED"
	CodeValidation            = "VALIDATION_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeUnknownOperation      = "UNKNOWN_OPERATION"
	CodeInternal              = "INTERNAL_ERROR"
)

// Messages clients match on; keep them stable.
const (
	MsgNotAuthenticated  = "Not authenticated"
	MsgSelfFollow        = "Cannot follow yourself"
	MsgUserExists        = "User already exists"
	MsgNoUserWithEmail   = "No user found with this email"
	MsgInvalidPassword   = "Invalid password"
	msgInternalError     = "Internal server error"
	msgUnknownOperation  = "Unknown operation"
	msgNotFoundTemplate  = "%s with ID %v not found"
	msgMissingIdentifier = "%s is required"
)

// ErrNotAuthenticated is returned by every operation that requires a caller identity.
var ErrNotAuthenticated = &AppError{Code: CodeNotAuthenticated, Message: MsgNotAuthenticated}

// ErrorResponse is a single entry of the envelope's errors list.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
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

// Is matches on code so that wrapped copies compare equal to the sentinels.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Response converts the error into its envelope representation. Internal
// details are never exposed.
func (e *AppError) Response() ErrorResponse {
	return ErrorResponse{Message: e.Message, Code: e.Code}
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf(msgNotFoundTemplate, resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewMissingFieldError reports an absent required argument.
func NewMissingFieldError(field string) *AppError {
	return NewValidationError(fmt.Sprintf(msgMissingIdentifier, field))
}

func NewInvalidCredentialError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidCredential,
		Message: message,
	}
}

func NewDuplicateRegistrationError() *AppError {
	return &AppError{
		Code:    CodeDuplicateRegistration,
		Message: MsgUserExists,
	}
}

func NewSelfFollowError() *AppError {
	return &AppError{
		Code:    CodeSelfFollowRejected,
		Message: MsgSelfFollow,
	}
}

func NewUnknownOperationError(operation string) *AppError {
	return &AppError{
		Code:    CodeUnknownOperation,
		Message: fmt.Sprintf("%s: %q", msgUnknownOperation, operation),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: msgInternalError,
		Err:     err,
	}
}

// AsAppError returns err as an *AppError, wrapping anything else as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}
