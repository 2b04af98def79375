package router

import (
	"net/http"

	"github.com/nimbuslabs/waitlist-service/internal/log"
)

// GetLogger returns the request-scoped logger injected by the middleware
// chain.
func GetLogger(ctx *RequestContext) *log.Logger {
	if logger, ok := ctx.Request.Context().Value(log.LoggerContextKey).(*log.Logger); ok {
		return logger
	}

	return log.New().WithCorrelationID(ctx.Request.Context())
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusOK, Data: data, Message: message}
}

func CreatedResult(data any, message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusCreated, Data: data, Message: message}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusBadRequest, Data: payload, Message: message}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusNotFound, Data: nil, Message: message}
}

func ConflictResult(message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusConflict, Data: nil, Message: message}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusInternalServerError, Data: nil, Message: message}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusTooManyRequests, Data: data, Message: "Too Many Requests"}
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{StatusCode: statusCode, Data: data, Message: message}
}
