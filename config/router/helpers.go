package router

import (
	"net/http"

	"github.com/akeren/resfi-api/internal/log"
	apperrors "github.com/akeren/resfi-api/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	if l, ok := ctx.Request.Context().Value(log.LoggerKeyForContext).(*log.Logger); ok {
		return l
	}

	return log.NewLoggerWithJSONOutput().WithCorrelationID(ctx.Request.Context())
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

func CreatedResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusCreated,
		Data:       data,
		Message:    message,
	}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Data:       data,
		Message:    "Too Many Requests",
	}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Data:       payload,
		Message:    message,
	}
}

func UnprocessableEntityResult(message string, payload any) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusUnprocessableEntity,
		Data:       payload,
		Message:    message,
	}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusNotFound,
		Data:       nil,
		Message:    message,
	}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusInternalServerError,
		Data:       nil,
		Message:    message,
	}
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	}
}

// AppErrorResult renders an error returned by a service. Validation errors carry
// their per-field details; every other type only exposes its safe message.
func AppErrorResult(err error, model any) *ServiceResult {
	status := apperrors.HTTPStatusCode(err)
	message := apperrors.GetHumanReadableMessage(err)

	if apperrors.GetErrorType(err) == apperrors.ErrorTypeValidation {
		fields := apperrors.FormatValidationErrors(err, model)
		if len(fields) == 0 {
			return UnprocessableEntityResult("Invalid request body", nil)
		}
		return UnprocessableEntityResult(message, fields)
	}

	return ErrorResult(status, message, nil)
}
