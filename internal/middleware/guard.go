package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/shopmesh/shopmesh/internal/apierrors"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/metrics"
	"github.com/shopmesh/shopmesh/internal/model"
)

// UpgradePath is where browsers land when a plan ceiling or a lapsed
// subscription blocks them. The denial code travels as a query parameter.
const UpgradePath = "/upgrade"

// RequireActiveSubscription blocks billing-gated routes for stores whose trial
// ended or whose subscription lapsed. It must run after ResolveTenant.
func RequireActiveSubscription(guard *manager.Guard) func(http.Handler) http.Handler {
	return guarded(guard.CheckSubscription)
}

// RequireProductQuota blocks product creation once the plan ceiling is
// reached.
func RequireProductQuota(guard *manager.Guard) func(http.Handler) http.Handler {
	return guarded(guard.CheckProductQuota)
}

// RequireOrderQuota blocks order creation once the monthly ceiling is
// reached.
func RequireOrderQuota(guard *manager.Guard) func(http.Handler) http.Handler {
	return guarded(guard.CheckOrderQuota)
}

// guarded runs one check against the resolved store. Storage quota is not
// expressed here because it needs the declared upload size from the request
// body; the media handler checks it inline.
func guarded(check func(*model.Tenant) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tenant, err := TenantRecord(ctx)
			if err != nil {
				respondError(ctx, w, err)
				return
			}

			err = check(tenant)
			if err != nil {
				var quotaErr *manager.QuotaError
				if errors.As(err, &quotaErr) {
					metrics.QuotaDenials.WithLabelValues(string(quotaErr.Type)).Inc()
				}

				if PrefersHTML(r) {
					apiErr := apierrors.APIErrorMapper.Transform(ctx, err)
					query := url.Values{"reason": {apiErr.Code}}
					http.Redirect(w, r, UpgradePath+"?"+query.Encode(), http.StatusSeeOther)

					return
				}

				respondError(ctx, w, err)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
