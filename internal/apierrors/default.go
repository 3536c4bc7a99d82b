package apierrors

import (
	"database/sql"
	"net/http"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/repo"
)

const (
	ResourceNotFound = "RESOURCE_NOT_FOUND"
	UniqueError      = "UNIQUE_ERROR"
	GetResource      = "GET_RESOURCE"
)

var defaultMapper = []errs.ExposedErrors[*APIError]{
	{
		InternalErrorChain: []error{sql.ErrNoRows},
		ExposedError: &APIError{
			Code:    ResourceNotFound,
			Message: "Requested resource not found",
			Status:  http.StatusNotFound,
		},
	},
	{
		InternalErrorChain: []error{repo.ErrNotFound},
		ExposedError: &APIError{
			Code:    ResourceNotFound,
			Message: "The requested resource was not found",
			Status:  http.StatusNotFound,
		},
	},
	{
		InternalErrorChain: []error{repo.ErrUniqueConstraint},
		ExposedError: &APIError{
			Code:    UniqueError,
			Message: "Resource with such ID already exists",
			Status:  http.StatusConflict,
		},
	},
	{
		InternalErrorChain: []error{repo.ErrGetResource},
		ExposedError: &APIError{
			Code:    GetResource,
			Message: "Failed to load the requested resource",
			Status:  http.StatusInternalServerError,
		},
	},
}
