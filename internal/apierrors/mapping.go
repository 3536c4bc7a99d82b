package apierrors

import (
	"net/http"
	"slices"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/repo"
)

// highPrio errors win regardless of how deep they sit in the chain. A missing
// tenant must surface as a 404 even when wrapped in a storage error.
var highPrio = []errs.ExposedErrors[*APIError]{
	{
		InternalErrorChain: []error{repo.ErrTenantNotFound},
		ExposedError: &APIError{
			Code:    StoreNotFound,
			Message: "Store not found",
			Status:  http.StatusNotFound,
		},
	},
}

var APIErrorMapper = errs.NewMapper(slices.Concat(
	tenants,
	guard,
	auth,
	defaultMapper,
), highPrio)
