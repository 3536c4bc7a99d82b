package store

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/api/write"
	"github.com/shopmesh/shopmesh/internal/errs"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/metrics"
	"github.com/shopmesh/shopmesh/internal/middleware"
	"github.com/shopmesh/shopmesh/internal/session"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

// Where a redeemed login lands, and where a failed one goes. Both live on the
// store's own domain.
const (
	ssoLandingPath = "/admin?welcome=1"
	ssoLoginPath   = "/login"
)

// LaunchSSO mints a single-use login token for one of the caller's stores and
// sends the browser to the redeem URL on the store's own domain. API clients
// asking for JSON get the URL in the body instead. Central domain only.
func (c *APIController) LaunchSSO(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := meshcontext.ExtractCentralUserID(ctx)
	if err != nil {
		c.fail(ctx, w, "No authenticated user", err)
		return
	}

	redirectURL, err := c.Manager.SSO.IssueToken(ctx, userID, r.PathValue("id"))
	if err != nil {
		c.fail(ctx, w, "Failed to issue login token", err)
		return
	}

	if middleware.PrefersHTML(r) {
		http.Redirect(w, r, redirectURL, http.StatusFound)
		return
	}

	write.JSON(ctx, w, http.StatusOK, storeapi.SSOLaunchResponse{RedirectURL: redirectURL})
}

// RedeemSSO consumes a login token on the store's domain, materializes the
// store account and starts a store session. A token minted for a different
// store than the one serving the request is rejected.
func (c *APIController) RedeemSSO(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resolved, err := middleware.TenantRecord(ctx)
	if err != nil {
		c.fail(ctx, w, "No store bound to request", err)
		return
	}

	raw := r.URL.Query().Get("token")
	if raw == "" {
		validationError(ctx, w, "token is required")
		return
	}

	storeUser, tenant, err := c.Manager.SSO.RedeemToken(ctx, raw)
	if err != nil {
		c.rejectSSO(w, r, "Failed to redeem login token", err)
		return
	}

	if tenant.ID != resolved.ID {
		c.rejectSSO(w, r, "Login token presented on the wrong store",
			errs.Wrapf(manager.ErrLoginTokenInvalid, "token store %q", tenant.ID))

		return
	}

	token, expires, err := c.Sessions.IssueStore(tenant.ID, storeUser.ID, storeUser.Role)
	if err != nil {
		c.fail(ctx, w, "Failed to issue store session", err)
		return
	}

	metrics.SSORedemptions.WithLabelValues(metrics.OutcomeRedeemed).Inc()

	session.SetCookie(w, session.StoreCookieName(tenant.ID), token, expires)
	http.Redirect(w, r, ssoLandingPath, http.StatusSeeOther)
}

// rejectSSO sends a browser that presented a bad token to the store login
// page, without leaking why the token was refused. API clients get the mapped
// error instead.
func (c *APIController) rejectSSO(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()

	metrics.SSORedemptions.WithLabelValues(metrics.OutcomeRejected).Inc()

	if middleware.PrefersHTML(r) {
		log.Warn(ctx, msg, log.ErrorAttr(err))
		http.Redirect(w, r, ssoLoginPath, http.StatusSeeOther)

		return
	}

	c.fail(ctx, w, msg, err)
}
