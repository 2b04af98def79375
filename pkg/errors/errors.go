package errors

import (
	"errors"
	"fmt"
)

const (
	ErrorTypeDatabase       = "DATABASE_ERROR"
	ErrorTypeNotFound       = "NOT_FOUND"
	ErrorTypeInvalidRequest = "INVALID_REQUEST"
	ErrorTypeConflict       = "CONFLICT"
	ErrorTypeUnauthorized   = "UNAUTHORIZED"
	ErrorTypeForbidden      = "FORBIDDEN"
	ErrorTypeInternal       = "INTERNAL_SERVER_ERROR"
	ErrorTypeUnknown        = "UNKNOWN_ERROR"
)

// AppError is the application error envelope. Message is safe to show to
// callers; Err holds the wrapped internal cause.
type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, err)
}

func NewInvalidRequestError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidRequest, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(ErrorTypeDatabase, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return NewAppError(ErrorTypeConflict, message, err)
}

func NewInternalServerError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInternal, message, err)
}

// GetErrorType returns the AppError type, or ErrorTypeUnknown for foreign
// errors.
func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return ErrorTypeUnknown
}
