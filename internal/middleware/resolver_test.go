package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/middleware"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	"github.com/shopmesh/shopmesh/internal/repo/mock"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Tenancy: config.Tenancy{
			BaseDomain: "shopmesh.io",
			TrialDays:  14,
		},
		SSO: config.SSO{
			TokenTTL:       5 * time.Minute,
			RedirectScheme: "https",
		},
	}
}

func provisionStore(t *testing.T, r repo.Repo, cfg *config.Config, id string) *manager.TenantManager {
	t.Helper()

	require.NoError(t, r.Create(t.Context(), &model.Plan{
		ID:     uuid.New(),
		Slug:   model.PlanFree,
		Name:   "Free",
		Active: true,
	}))

	m := manager.NewTenantManager(r, cfg)

	_, err := m.CreateStore(t.Context(), manager.CreateStoreParams{
		ID:        id,
		StoreName: id,
		OwnerID:   uuid.New(),
	})
	require.NoError(t, err)

	return m
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) storeapi.ErrorMessage {
	t.Helper()

	var msg storeapi.ErrorMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))

	return msg
}

func TestResolveTenant(t *testing.T) {
	r := mock.NewInMemoryRepository()
	cfg := newTestConfig()
	tenants := provisionStore(t, r, cfg, "acme")

	var (
		boundTenant string
		hadRecord   bool
	)

	handler := middleware.ResolveTenant(tenants, cfg)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		boundTenant, _ = meshcontext.ExtractTenantID(req.Context())
		_, err := middleware.TenantRecord(req.Context())
		hadRecord = err == nil

		w.WriteHeader(http.StatusOK)
	}))

	serve := func(host string) *httptest.ResponseRecorder {
		boundTenant = ""
		hadRecord = false

		req := httptest.NewRequest(http.MethodGet, "http://"+host+"/", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	t.Run("should bind the store for its subdomain", func(t *testing.T) {
		rec := serve("acme.shopmesh.io")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acme", boundTenant)
		assert.True(t, hadRecord)
	})

	t.Run("should ignore the port when resolving", func(t *testing.T) {
		rec := serve("acme.shopmesh.io:8443")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acme", boundTenant)
	})

	t.Run("should pass the base domain through as central", func(t *testing.T) {
		rec := serve("shopmesh.io")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, boundTenant)
		assert.False(t, hadRecord)
	})

	t.Run("should treat single label hosts as central", func(t *testing.T) {
		rec := serve("localhost:8080")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, boundTenant)
	})

	t.Run("should never resolve reserved subdomains", func(t *testing.T) {
		for _, host := range []string{"www.shopmesh.io", "admin.shopmesh.io", "mail.shopmesh.io"} {
			rec := serve(host)

			assert.Equal(t, http.StatusOK, rec.Code, host)
			assert.Empty(t, boundTenant, host)
		}
	})

	t.Run("should reject unknown hostnames", func(t *testing.T) {
		rec := serve("ghost.shopmesh.io")

		assert.Equal(t, http.StatusNotFound, rec.Code)

		msg := decodeError(t, rec)
		assert.Equal(t, "STORE_NOT_FOUND", msg.Error.Code)
	})

	t.Run("should reject suspended stores with the reason", func(t *testing.T) {
		require.NoError(t, tenants.SuspendStore(t.Context(), "acme", "payment overdue"))

		rec := serve("acme.shopmesh.io")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		msg := decodeError(t, rec)
		assert.Equal(t, "STORE_SUSPENDED", msg.Error.Code)
		require.NotNil(t, msg.Error.Context)
		assert.Equal(t, "payment overdue", (*msg.Error.Context)["reason"])

		require.NoError(t, tenants.ActivateStore(t.Context(), "acme"))
	})
}
