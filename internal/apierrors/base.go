package apierrors

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
)

const (
	InternalServerErr = "INTERNAL_SERVER_ERROR"
	JSONDecodeErr     = "JSON_DECODE_ERROR"
	ValidationErr     = "VALIDATION_ERROR"
	UnauthorizedErr   = "UNAUTHORIZED"
	ForbiddenErr      = "FORBIDDEN"
)

type APIError struct {
	Code    string
	Message string
	Status  int
	Context *map[string]any
}

func (e *APIError) SetContext(context *map[string]any) {
	e.Context = context
}

func (e *APIError) DefaultError() *APIError {
	return InternalServerErrorMessage()
}

// ToMessage converts the mapped error into the wire envelope.
func (e *APIError) ToMessage() storeapi.ErrorMessage {
	return storeapi.ErrorMessage{Error: storeapi.DetailedError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Context: e.Context,
	}}
}

func InternalServerErrorMessage() *APIError {
	return &APIError{
		Code:    InternalServerErr,
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}
}

func JSONDecodeErrorMessage() *APIError {
	return &APIError{
		Code:    JSONDecodeErr,
		Message: "Can't decode JSON body",
		Status:  http.StatusBadRequest,
	}
}

func ValidationErrorMessage(message string) *APIError {
	return &APIError{
		Code:    ValidationErr,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
	}
}

func UnauthorizedErrorMessage() *APIError {
	return &APIError{
		Code:    UnauthorizedErr,
		Message: "Authentication required",
		Status:  http.StatusUnauthorized,
	}
}
