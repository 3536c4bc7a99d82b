package store

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	usertransform "github.com/shopmesh/shopmesh/internal/api/transform/user"
	"github.com/shopmesh/shopmesh/internal/api/write"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/session"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

const minPasswordLength = 8

// Register creates a central account and signs the caller in.
func (c *APIController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, ok := decode[storeapi.RegisterRequest](ctx, w, r)
	if !ok {
		return
	}

	if body.Email == "" || body.Name == "" {
		validationError(ctx, w, "email and name are required")
		return
	}

	if len(body.Password) < minPasswordLength {
		validationError(ctx, w, "password must be at least 8 characters")
		return
	}

	user, err := c.Manager.Users.Register(ctx, body.Email, body.Name, body.Password)
	if err != nil {
		c.fail(ctx, w, "Failed to register user", err)
		return
	}

	token, expires, err := c.Sessions.IssueCentral(user.ID)
	if err != nil {
		c.fail(ctx, w, "Failed to issue session", err)
		return
	}

	session.SetCookie(w, constants.CentralSessionCookie, token, expires)
	write.JSON(ctx, w, http.StatusCreated, usertransform.ToAPI(user))
}

// Login verifies central credentials and sets the session cookie. Unknown
// emails and wrong passwords produce the same response.
func (c *APIController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, ok := decode[storeapi.LoginRequest](ctx, w, r)
	if !ok {
		return
	}

	user, err := c.Manager.Users.Authenticate(ctx, body.Email, body.Password)
	if err != nil {
		c.fail(ctx, w, "Failed login attempt", err)
		return
	}

	token, expires, err := c.Sessions.IssueCentral(user.ID)
	if err != nil {
		c.fail(ctx, w, "Failed to issue session", err)
		return
	}

	session.SetCookie(w, constants.CentralSessionCookie, token, expires)
	write.JSON(ctx, w, http.StatusOK, usertransform.ToAPI(user))
}

// Logout clears the central session cookie.
func (c *APIController) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w, constants.CentralSessionCookie)
	w.WriteHeader(http.StatusNoContent)
}

// CurrentUser returns the authenticated central account.
func (c *APIController) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := meshcontext.ExtractCentralUserID(ctx)
	if err != nil {
		c.fail(ctx, w, "No authenticated user", err)
		return
	}

	user, err := c.Manager.Users.GetUser(ctx, userID)
	if err != nil {
		c.fail(ctx, w, "Failed to load user", err)
		return
	}

	write.JSON(ctx, w, http.StatusOK, usertransform.ToAPI(user))
}
