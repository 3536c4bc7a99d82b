package apierrors

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/repo"
)

const (
	StoreNotFound      = "STORE_NOT_FOUND"
	StoreSuspended     = "STORE_SUSPENDED"
	StoreIDTaken       = "STORE_ID_TAKEN"
	ReservedIdentifier = "RESERVED_IDENTIFIER"
	InvalidIdentifier  = "INVALID_IDENTIFIER"
	PlanNotFound       = "PLAN_NOT_FOUND"
	PlanUnavailable    = "PLAN_UNAVAILABLE"
)

var tenants = []errs.ExposedErrors[*APIError]{
	{
		InternalErrorChain: []error{repo.ErrTenantNotFound},
		ExposedError: &APIError{
			Code:    StoreNotFound,
			Message: "Store not found",
			Status:  http.StatusNotFound,
		},
	},
	{
		InternalErrorChain: []error{manager.ErrTenantSuspended},
		ExposedError: &APIError{
			Code:    StoreSuspended,
			Message: "This store is temporarily unavailable",
			Status:  http.StatusServiceUnavailable,
		},
		ContextGetter: manager.GetSuspensionContext,
	},
	{
		InternalErrorChain: []error{manager.ErrProvisioningProgress},
		ExposedError: &APIError{
			Code:    StoreIDTaken,
			Message: "Store identifier is already taken",
			Status:  http.StatusConflict,
		},
	},
	{
		InternalErrorChain: []error{manager.ErrReservedSubdomain},
		ExposedError: &APIError{
			Code:    ReservedIdentifier,
			Message: "Store identifier is reserved",
			Status:  http.StatusUnprocessableEntity,
		},
	},
	{
		InternalErrorChain: []error{manager.ErrValidatingTenant},
		ExposedError: &APIError{
			Code:    InvalidIdentifier,
			Message: "Store identifier must be a valid lowercase DNS label",
			Status:  http.StatusUnprocessableEntity,
		},
	},
	{
		InternalErrorChain: []error{manager.ErrPlanNotFound},
		ExposedError: &APIError{
			Code:    PlanNotFound,
			Message: "No such plan",
			Status:  http.StatusUnprocessableEntity,
		},
	},
	{
		InternalErrorChain: []error{manager.ErrPlanInactive},
		ExposedError: &APIError{
			Code:    PlanUnavailable,
			Message: "Plan is not available",
			Status:  http.StatusUnprocessableEntity,
		},
	},
	{
		InternalErrorChain: []error{manager.ErrListTenants},
		ExposedError: &APIError{
			Code:    "GET_STORES",
			Message: "Failed to get stores",
			Status:  http.StatusInternalServerError,
		},
	},
}
