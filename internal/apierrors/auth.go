package apierrors

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/session"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

const (
	InvalidCredentials = "INVALID_CREDENTIALS"
	InvalidLoginToken  = "INVALID_LOGIN_TOKEN"
	NotStoreOwner      = "NOT_STORE_OWNER"
)

var auth = []errs.ExposedErrors[*APIError]{
	{
		InternalErrorChain: []error{manager.ErrInvalidCredentials},
		ExposedError: &APIError{
			Code:    InvalidCredentials,
			Message: "Invalid email or password",
			Status:  http.StatusUnauthorized,
		},
	},
	{
		InternalErrorChain: []error{manager.ErrLoginTokenInvalid},
		ExposedError: &APIError{
			Code:    InvalidLoginToken,
			Message: "Login token is invalid or expired",
			Status:  http.StatusUnauthorized,
		},
	},
	{
		InternalErrorChain: []error{manager.ErrNotStoreOwner},
		ExposedError: &APIError{
			Code:    NotStoreOwner,
			Message: "You do not own this store",
			Status:  http.StatusForbidden,
		},
	},
	{
		InternalErrorChain: []error{session.ErrInvalidSession},
		ExposedError: &APIError{
			Code:    UnauthorizedErr,
			Message: "Authentication required",
			Status:  http.StatusUnauthorized,
		},
	},
	{
		InternalErrorChain: []error{session.ErrWrongAudience},
		ExposedError: &APIError{
			Code:    UnauthorizedErr,
			Message: "Authentication required",
			Status:  http.StatusUnauthorized,
		},
	},
	{
		InternalErrorChain: []error{meshcontext.ErrExtractCentralUID},
		ExposedError: &APIError{
			Code:    UnauthorizedErr,
			Message: "Authentication required",
			Status:  http.StatusUnauthorized,
		},
	},
}
