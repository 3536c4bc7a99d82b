package middleware

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/api/write"
	"github.com/shopmesh/shopmesh/internal/apierrors"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/session"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

// RequireCentralUser rejects requests without a valid central session cookie
// and injects the authenticated user ID into the context.
func RequireCentralUser(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(constants.CentralSessionCookie)
			if err != nil {
				write.ErrorResponse(ctx, w, apierrors.UnauthorizedErrorMessage().ToMessage())
				return
			}

			userID, err := sessions.ParseCentral(cookie.Value)
			if err != nil {
				respondError(ctx, w, err)
				return
			}

			ctx = meshcontext.InjectCentralUserID(ctx, userID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStoreUser rejects tenant-domain requests without a valid session for
// the resolved store. A cookie minted for another store fails validation even
// though its signature is valid.
func RequireStoreUser(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tenant, err := TenantRecord(ctx)
			if err != nil {
				respondError(ctx, w, err)
				return
			}

			cookie, err := r.Cookie(session.StoreCookieName(tenant.ID))
			if err != nil {
				write.ErrorResponse(ctx, w, apierrors.UnauthorizedErrorMessage().ToMessage())
				return
			}

			claims, err := sessions.ParseStore(cookie.Value, tenant.ID)
			if err != nil {
				respondError(ctx, w, err)
				return
			}

			ctx = withStoreClaims(ctx, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStoreRole gates a route on the session role. It must run after
// RequireStoreUser.
func RequireStoreRole(role model.StoreRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, err := StoreClaims(ctx)
			if err != nil {
				respondError(ctx, w, err)
				return
			}

			if claims.Role != role {
				write.ErrorResponse(ctx, w, (&apierrors.APIError{
					Code:    apierrors.ForbiddenErr,
					Message: "Insufficient role",
					Status:  http.StatusForbidden,
				}).ToMessage())

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
