package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/middleware"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo/mock"
	"github.com/shopmesh/shopmesh/internal/session"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

func newSessionManager(t *testing.T) *session.Manager {
	t.Helper()

	m, err := session.NewManager(config.Session{
		Secret: commoncfg.SourceRef{
			Source: commoncfg.EmbeddedSourceValue,
			Value:  "test-signing-secret",
		},
		TTL: time.Hour,
	})
	require.NoError(t, err)

	return m
}

func TestRequireCentralUser(t *testing.T) {
	sessions := newSessionManager(t)

	var gotUser uuid.UUID

	handler := middleware.RequireCentralUser(sessions)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotUser, _ = meshcontext.ExtractCentralUserID(req.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(cookie *http.Cookie) *httptest.ResponseRecorder {
		gotUser = uuid.Nil

		req := httptest.NewRequest(http.MethodGet, "http://shopmesh.io/stores", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	t.Run("should inject the user from a valid session", func(t *testing.T) {
		userID := uuid.New()
		token, _, err := sessions.IssueCentral(userID)
		require.NoError(t, err)

		rec := serve(&http.Cookie{Name: constants.CentralSessionCookie, Value: token})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotUser)
	})

	t.Run("should reject requests without a cookie", func(t *testing.T) {
		rec := serve(nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Error.Code)
	})

	t.Run("should reject a tampered token", func(t *testing.T) {
		token, _, err := sessions.IssueCentral(uuid.New())
		require.NoError(t, err)

		rec := serve(&http.Cookie{Name: constants.CentralSessionCookie, Value: token + "x"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject a store session on the central domain", func(t *testing.T) {
		token, _, err := sessions.IssueStore("acme", 7, model.RoleAdmin)
		require.NoError(t, err)

		rec := serve(&http.Cookie{Name: constants.CentralSessionCookie, Value: token})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireStoreUser(t *testing.T) {
	r := mock.NewInMemoryRepository()
	cfg := newTestConfig()
	tenants := provisionStore(t, r, cfg, "acme")
	sessions := newSessionManager(t)

	var gotClaims *session.Claims

	inner := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotClaims, _ = middleware.StoreClaims(req.Context())
		w.WriteHeader(http.StatusOK)
	})

	serve := func(handler http.Handler, cookie *http.Cookie) *httptest.ResponseRecorder {
		gotClaims = nil

		req := httptest.NewRequest(http.MethodGet, "http://acme.shopmesh.io/account", nil)
		req.Host = "acme.shopmesh.io"

		if cookie != nil {
			req.AddCookie(cookie)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	withSession := middleware.ResolveTenant(tenants, cfg)(middleware.RequireStoreUser(sessions)(inner))

	t.Run("should accept a session minted for this store", func(t *testing.T) {
		token, _, err := sessions.IssueStore("acme", 7, model.RoleAdmin)
		require.NoError(t, err)

		rec := serve(withSession, &http.Cookie{Name: session.StoreCookieName("acme"), Value: token})

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "acme", gotClaims.TenantID)
		assert.Equal(t, model.RoleAdmin, gotClaims.Role)
	})

	t.Run("should reject requests without a cookie", func(t *testing.T) {
		rec := serve(withSession, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject a session minted for another store", func(t *testing.T) {
		token, _, err := sessions.IssueStore("globex", 7, model.RoleAdmin)
		require.NoError(t, err)

		rec := serve(withSession, &http.Cookie{Name: session.StoreCookieName("acme"), Value: token})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, gotClaims)
	})

	t.Run("should gate admin routes on the session role", func(t *testing.T) {
		adminOnly := middleware.ResolveTenant(tenants, cfg)(
			middleware.RequireStoreUser(sessions)(
				middleware.RequireStoreRole(model.RoleAdmin)(inner)))

		token, _, err := sessions.IssueStore("acme", 7, model.RoleCustomer)
		require.NoError(t, err)

		rec := serve(adminOnly, &http.Cookie{Name: session.StoreCookieName("acme"), Value: token})

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Error.Code)
	})
}
