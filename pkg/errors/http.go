package errors

import (
	"errors"
	"net/http"
)

// HTTPStatusCode maps an application error to its HTTP status.
func HTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	switch GetErrorType(err) {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// GetHumanReadableMessage returns the caller-safe message of an AppError.
// Foreign errors collapse to a generic message so internal details (driver
// errors, SQL text) never leak through the API.
func GetHumanReadableMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	return "An unexpected error occurred"
}
