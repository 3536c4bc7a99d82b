package mock_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	"github.com/shopmesh/shopmesh/internal/repo/mock"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

func TestInMemoryRepositorySharedModels(t *testing.T) {
	r := mock.NewInMemoryRepository()
	ctx := t.Context()

	t.Run("should create and find a tenant by ID", func(t *testing.T) {
		err := r.Create(ctx, &model.Tenant{
			ID:        "acme",
			OwnerID:   uuid.New(),
			StoreName: "Acme Store",
			Status:    model.TenantStatusActive,
		})
		require.NoError(t, err)

		tenant := &model.Tenant{}
		found, err := r.First(ctx, tenant, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, "acme"))))
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Acme Store", tenant.StoreName)
	})

	t.Run("should reject duplicate tenant IDs", func(t *testing.T) {
		err := r.Create(ctx, &model.Tenant{ID: "acme", OwnerID: uuid.New()})
		require.ErrorIs(t, err, repo.ErrUniqueConstraint)
	})

	t.Run("should report not found without error", func(t *testing.T) {
		found, err := r.First(ctx, &model.Tenant{}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, "ghost"))))
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestInMemoryRepositoryTenantIsolation(t *testing.T) {
	r := mock.NewInMemoryRepository()

	ctxA := meshcontext.CreateTenantContext(t.Context(), "store-a")
	ctxB := meshcontext.CreateTenantContext(t.Context(), "store-b")

	require.NoError(t, r.Create(ctxA, &model.Product{Name: "Widget", PriceCents: 1500}))

	t.Run("should not see another store's products", func(t *testing.T) {
		var products []*model.Product

		count, err := r.List(ctxB, &model.Product{}, &products, *repo.NewQuery())
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, products)
	})

	t.Run("should fail for tenant models without tenant context", func(t *testing.T) {
		err := r.Create(t.Context(), &model.Product{Name: "Gadget"})
		require.ErrorIs(t, err, repo.ErrWithTenant)
	})
}

func TestInMemoryRepositoryQueryEvaluation(t *testing.T) {
	r := mock.NewInMemoryRepository()
	ctx := t.Context()
	now := time.Now()

	live := &model.LoginToken{
		ID:        uuid.New(),
		Token:     "live-token",
		UserID:    uuid.New(),
		TenantID:  "acme",
		ExpiresAt: now.Add(5 * time.Minute),
	}
	expired := &model.LoginToken{
		ID:        uuid.New(),
		Token:     "stale-token",
		UserID:    uuid.New(),
		TenantID:  "acme",
		ExpiresAt: now.Add(-time.Minute),
	}

	require.NoError(t, r.Create(ctx, live))
	require.NoError(t, r.Create(ctx, expired))

	t.Run("should evaluate greater-than against timestamps", func(t *testing.T) {
		deleted, err := r.Delete(ctx, &model.LoginToken{}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().
				Where(repo.TokenField, "stale-token").
				Where(repo.ExpiresAtField, now, repo.Gt))))
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("should fill the resource from the deleted row", func(t *testing.T) {
		consumed := &model.LoginToken{}
		deleted, err := r.Delete(ctx, consumed, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().
				Where(repo.TokenField, "live-token").
				Where(repo.ExpiresAtField, now, repo.Gt))))
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, live.UserID, consumed.UserID)
		assert.Equal(t, "acme", consumed.TenantID)
	})

	t.Run("should not find the consumed token again", func(t *testing.T) {
		found, err := r.First(ctx, &model.LoginToken{}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.TokenField, "live-token"))))
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestInMemoryRepositoryPatchAndIncrement(t *testing.T) {
	r := mock.NewInMemoryRepository()
	ctx := t.Context()

	require.NoError(t, r.Create(ctx, &model.Tenant{
		ID:           "acme",
		OwnerID:      uuid.New(),
		StoreName:    "Acme Store",
		Status:       model.TenantStatusActive,
		ProductCount: 2,
	}))

	byID := func() repo.Query {
		return *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, "acme")))
	}

	t.Run("should patch only the listed fields", func(t *testing.T) {
		patched, err := r.Patch(ctx, &model.Tenant{
			Status:    model.TenantStatusSuspended,
			StoreName: "should not be written",
		}, *repo.NewQuery().
			Where(repo.NewCompositeKeyGroup(repo.NewCompositeKey().Where(repo.IDField, "acme"))).
			Update(repo.StatusField))
		require.NoError(t, err)
		assert.True(t, patched)

		tenant := &model.Tenant{}
		found, err := r.First(ctx, tenant, byID())
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, model.TenantStatusSuspended, tenant.Status)
		assert.Equal(t, "Acme Store", tenant.StoreName)
	})

	t.Run("should apply increments relative to the stored value", func(t *testing.T) {
		bumped, err := r.Increment(ctx, &model.Tenant{}, repo.ProductCountField, 1, byID())
		require.NoError(t, err)
		assert.True(t, bumped)

		bumped, err = r.Increment(ctx, &model.Tenant{}, repo.ProductCountField, -1, byID())
		require.NoError(t, err)
		assert.True(t, bumped)

		tenant := &model.Tenant{}
		_, err = r.First(ctx, tenant, byID())
		require.NoError(t, err)
		assert.Equal(t, 2, tenant.ProductCount)
	})
}
