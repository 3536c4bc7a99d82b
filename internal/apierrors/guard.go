package apierrors

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/manager"
)

// Guard error codes are lowercase on the wire; storefront clients key
// upgrade prompts off them.
const (
	QuotaExceeded        = "quota_exceeded"
	SubscriptionExpired  = "subscription_expired"
	SubscriptionInactive = "subscription_inactive"
)

var guard = []errs.ExposedErrors[*APIError]{
	{
		InternalErrorChain: []error{manager.ErrQuotaExceeded},
		ExposedError: &APIError{
			Code:    QuotaExceeded,
			Message: "Plan quota exceeded",
			Status:  http.StatusForbidden,
		},
		ContextGetter: manager.GetQuotaErrorContext,
	},
	{
		InternalErrorChain: []error{manager.ErrSubscriptionExpired},
		ExposedError: &APIError{
			Code:    SubscriptionExpired,
			Message: "Subscription has expired",
			Status:  http.StatusForbidden,
		},
	},
	{
		InternalErrorChain: []error{manager.ErrSubscriptionInactive},
		ExposedError: &APIError{
			Code:    SubscriptionInactive,
			Message: "Subscription is not active",
			Status:  http.StatusForbidden,
		},
	},
}
