package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/middleware"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	"github.com/shopmesh/shopmesh/internal/repo/mock"
)

func TestGuardMiddlewares(t *testing.T) {
	r := mock.NewInMemoryRepository()
	cfg := newTestConfig()

	require.NoError(t, r.Create(t.Context(), &model.Plan{
		ID:                uuid.New(),
		Slug:              model.PlanFree,
		Name:              "Free",
		MaxProducts:       1,
		MaxOrdersPerMonth: 2,
		Active:            true,
	}))

	tenants := manager.NewTenantManager(r, cfg)
	_, err := tenants.CreateStore(t.Context(), manager.CreateStoreParams{
		ID:        "acme",
		StoreName: "Acme",
		OwnerID:   uuid.New(),
	})
	require.NoError(t, err)

	guard := manager.NewGuard()

	chain := func(inner func(http.Handler) http.Handler) http.Handler {
		ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})

		return middleware.ResolveTenant(tenants, cfg)(inner(ok))
	}

	serve := func(handler http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "http://acme.shopmesh.io/", nil)
		req.Host = "acme.shopmesh.io"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	t.Run("should let a trialing store through", func(t *testing.T) {
		rec := serve(chain(middleware.RequireActiveSubscription(guard)))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("should allow creation below the product ceiling", func(t *testing.T) {
		rec := serve(chain(middleware.RequireProductQuota(guard)))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("should deny creation at the product ceiling", func(t *testing.T) {
		require.NoError(t, tenants.AddProductCount(t.Context(), "acme", 1))

		rec := serve(chain(middleware.RequireProductQuota(guard)))
		require.Equal(t, http.StatusForbidden, rec.Code)

		msg := decodeError(t, rec)
		assert.Equal(t, "quota_exceeded", msg.Error.Code)
		require.NotNil(t, msg.Error.Context)
		assert.Equal(t, "products", (*msg.Error.Context)["quota_type"])
		assert.Equal(t, float64(1), (*msg.Error.Context)["limit"])
		assert.Equal(t, "upgrade", (*msg.Error.Context)["action"])
	})

	t.Run("should deny orders at the monthly ceiling", func(t *testing.T) {
		require.NoError(t, tenants.AddOrderCount(t.Context(), "acme", 2))

		rec := serve(chain(middleware.RequireOrderQuota(guard)))
		require.Equal(t, http.StatusForbidden, rec.Code)

		msg := decodeError(t, rec)
		assert.Equal(t, "quota_exceeded", msg.Error.Code)
	})

	t.Run("should report an expired trial", func(t *testing.T) {
		past := time.Now().AddDate(0, 0, -1)

		_, err := r.Patch(t.Context(), &model.Tenant{TrialEndsAt: &past}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, "acme"))))
		require.NoError(t, err)

		rec := serve(chain(middleware.RequireActiveSubscription(guard)))
		require.Equal(t, http.StatusForbidden, rec.Code)

		msg := decodeError(t, rec)
		assert.Equal(t, "subscription_expired", msg.Error.Code)
	})

	t.Run("should report a cancelled subscription", func(t *testing.T) {
		_, err := r.Patch(t.Context(), &model.Tenant{
			SubscriptionStatus: model.SubscriptionCancelled,
		}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, "acme"))))
		require.NoError(t, err)

		rec := serve(chain(middleware.RequireActiveSubscription(guard)))
		require.Equal(t, http.StatusForbidden, rec.Code)

		msg := decodeError(t, rec)
		assert.Equal(t, "subscription_inactive", msg.Error.Code)
	})
}
