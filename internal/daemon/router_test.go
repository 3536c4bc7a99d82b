package daemon_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/controllers/store"
	"github.com/shopmesh/shopmesh/internal/daemon"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo/mock"
	"github.com/shopmesh/shopmesh/internal/session"
)

const baseDomain = "shopmesh.io"

func newRouterConfig() *config.Config {
	return &config.Config{
		Tenancy: config.Tenancy{
			BaseDomain: baseDomain,
			TrialDays:  14,
		},
		SSO: config.SSO{
			TokenTTL:       5 * time.Minute,
			RedirectScheme: "https",
		},
		Session: config.Session{
			Secret: commoncfg.SourceRef{
				Source: commoncfg.EmbeddedSourceValue,
				Value:  "test-signing-secret",
			},
			TTL: time.Hour,
		},
	}
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	r := mock.NewInMemoryRepository()
	cfg := newRouterConfig()

	require.NoError(t, r.Create(t.Context(), &model.Plan{
		ID:                uuid.New(),
		Slug:              model.PlanFree,
		Name:              "Free",
		MaxProducts:       1,
		MaxOrdersPerMonth: 5,
		Active:            true,
	}))

	ctr, err := store.NewAPIController(r, cfg)
	require.NoError(t, err)

	return daemon.NewRouter(ctr, cfg)
}

func serveJSON(
	t *testing.T,
	handler http.Handler,
	method, host, target string,
	body any,
	cookies ...*http.Cookie,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, "http://"+host+target, &buf)
	req.Host = host

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))

	return out
}

func cookieNamed(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	t.Fatalf("response carries no cookie named %q", name)

	return nil
}

// TestRouter walks the merchant journey end to end: sign up centrally, open a
// store, cross the login bridge onto the store's domain and run it there.
func TestRouter(t *testing.T) {
	handler := newRouter(t)

	var (
		centralSession *http.Cookie
		storeSession   *http.Cookie
		ssoToken       string
	)

	t.Run("should register a central account", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodPost, baseDomain, "/register", storeapi.RegisterRequest{
			Email:    "owner@example.com",
			Name:     "Owner",
			Password: "s3cret-pass",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		centralSession = cookieNamed(t, rec, constants.CentralSessionCookie)
	})

	t.Run("should create a store", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodPost, baseDomain, "/stores", storeapi.CreateStoreRequest{
			ID:        "acme",
			StoreName: "Acme",
		}, centralSession)
		require.Equal(t, http.StatusCreated, rec.Code)

		created := decodeBody[storeapi.StoreResponse](t, rec)
		assert.Equal(t, "acme.shopmesh.io", created.Hostname)
		assert.Equal(t, string(model.SubscriptionTrial), created.SubscriptionStatus)
	})

	t.Run("should serve the storefront on its subdomain", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodGet, "acme.shopmesh.io", "/products", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		listed := decodeBody[storeapi.ProductListResponse](t, rec)
		assert.Zero(t, listed.Total)
	})

	t.Run("should keep central routes off store domains", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodGet, "acme.shopmesh.io", "/plans", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should require a store session to manage products", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodPost, "acme.shopmesh.io", "/products", storeapi.ProductRequest{
			Name:       "Widget",
			PriceCents: 1999,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should launch the login bridge from the central domain", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodGet, baseDomain, "/sso/acme", nil, centralSession)
		require.Equal(t, http.StatusOK, rec.Code)

		launched := decodeBody[storeapi.SSOLaunchResponse](t, rec)

		redirect, err := url.Parse(launched.RedirectURL)
		require.NoError(t, err)
		assert.Equal(t, "acme.shopmesh.io", redirect.Host)

		ssoToken = redirect.Query().Get("token")
		require.NotEmpty(t, ssoToken)
	})

	t.Run("should redeem the token on the store domain", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodGet, "acme.shopmesh.io", "/sso?token="+ssoToken, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin?welcome=1", rec.Header().Get("Location"))

		storeSession = cookieNamed(t, rec, session.StoreCookieName("acme"))
	})

	t.Run("should reject the token on second use", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodGet, "acme.shopmesh.io", "/sso?token="+ssoToken, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		msg := decodeBody[storeapi.ErrorMessage](t, rec)
		assert.Equal(t, "INVALID_LOGIN_TOKEN", msg.Error.Code)
	})

	t.Run("should send a browser with a bad token to the login page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://acme.shopmesh.io/sso?token="+ssoToken, nil)
		req.Host = "acme.shopmesh.io"
		req.Header.Set("Accept", "text/html")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("should create a product with the store session", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodPost, "acme.shopmesh.io", "/products", storeapi.ProductRequest{
			Name:       "Widget",
			PriceCents: 1999,
		}, storeSession)
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("should deny the next product at the plan ceiling", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodPost, "acme.shopmesh.io", "/products", storeapi.ProductRequest{
			Name:       "Gadget",
			PriceCents: 2999,
		}, storeSession)
		require.Equal(t, http.StatusForbidden, rec.Code)

		msg := decodeBody[storeapi.ErrorMessage](t, rec)
		assert.Equal(t, "quota_exceeded", msg.Error.Code)
		require.NotNil(t, msg.Error.Context)
		assert.Equal(t, "products", (*msg.Error.Context)["quota_type"])
	})

	t.Run("should send a browser at the ceiling to the upgrade page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://acme.shopmesh.io/products", nil)
		req.Host = "acme.shopmesh.io"
		req.Header.Set("Accept", "text/html")
		req.AddCookie(storeSession)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/upgrade?reason=quota_exceeded", rec.Header().Get("Location"))
	})

	t.Run("should take a guest order", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodPost, "acme.shopmesh.io", "/orders", storeapi.OrderRequest{
			TotalCents: 4998,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		placed := decodeBody[storeapi.OrderResponse](t, rec)
		assert.Contains(t, placed.Number, "ORD-")
	})

	t.Run("should report usage on the central dashboard", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodGet, baseDomain, "/stores/acme", nil, centralSession)
		require.Equal(t, http.StatusOK, rec.Code)

		dashboard := decodeBody[storeapi.StoreResponse](t, rec)
		assert.Equal(t, 1, dashboard.ProductCount)
		assert.Equal(t, 1, dashboard.OrderCountThisMonth)
	})

	t.Run("should reject unknown hostnames", func(t *testing.T) {
		rec := serveJSON(t, handler, http.MethodGet, "ghost.shopmesh.io", "/products", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		msg := decodeBody[storeapi.ErrorMessage](t, rec)
		assert.Equal(t, "STORE_NOT_FOUND", msg.Error.Code)
	})
}
