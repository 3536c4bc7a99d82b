package manager_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/utils/ptr"
)

func TestCheckSubscription(t *testing.T) {
	g := manager.NewGuard()
	now := time.Now()

	tests := []struct {
		name    string
		tenant  model.Tenant
		wantErr error
	}{
		{
			name: "trial with open window passes",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionTrial,
				TrialEndsAt:        ptr.PointTo(now.Add(5 * 24 * time.Hour)),
			},
		},
		{
			name: "trial past its window is expired",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionTrial,
				TrialEndsAt:        ptr.PointTo(now.Add(-time.Hour)),
			},
			wantErr: manager.ErrSubscriptionExpired,
		},
		{
			name: "active without end date passes",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionActive,
			},
		},
		{
			name: "active with future end passes",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionActive,
				SubscriptionEndsAt: ptr.PointTo(now.Add(24 * time.Hour)),
			},
		},
		{
			name: "lapsed active is expired",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionActive,
				SubscriptionEndsAt: ptr.PointTo(now.Add(-24 * time.Hour)),
			},
			wantErr: manager.ErrSubscriptionExpired,
		},
		{
			name: "past due is still in grace",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionPastDue,
			},
		},
		{
			name: "cancelled is inactive",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionCancelled,
			},
			wantErr: manager.ErrSubscriptionInactive,
		},
		{
			name: "expired status is inactive",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionExpired,
			},
			wantErr: manager.ErrSubscriptionInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.CheckSubscription(&tt.tenant)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckQuotas(t *testing.T) {
	g := manager.NewGuard()

	plan := &model.Plan{
		MaxProducts:       10,
		MaxOrdersPerMonth: 100,
		MaxStorageMB:      500,
	}

	t.Run("should permit below the ceiling", func(t *testing.T) {
		tenant := &model.Tenant{Plan: plan, ProductCount: 9}
		assert.NoError(t, g.CheckProductQuota(tenant))
	})

	t.Run("should deny at the ceiling", func(t *testing.T) {
		tenant := &model.Tenant{Plan: plan, ProductCount: 10}
		err := g.CheckProductQuota(tenant)
		require.ErrorIs(t, err, manager.ErrQuotaExceeded)
	})

	t.Run("should deny orders at the monthly ceiling", func(t *testing.T) {
		tenant := &model.Tenant{Plan: plan, OrderCountThisMonth: 100}
		require.ErrorIs(t, g.CheckOrderQuota(tenant), manager.ErrQuotaExceeded)
	})

	t.Run("should account for upload size", func(t *testing.T) {
		tenant := &model.Tenant{Plan: plan, StorageUsedMB: 490}
		assert.NoError(t, g.CheckStorageQuota(tenant, 10))
		assert.ErrorIs(t, g.CheckStorageQuota(tenant, 11), manager.ErrQuotaExceeded)
	})

	t.Run("should treat zero as unlimited", func(t *testing.T) {
		tenant := &model.Tenant{Plan: &model.Plan{}, ProductCount: 100000}
		assert.NoError(t, g.CheckProductQuota(tenant))
	})

	t.Run("should pass without a plan", func(t *testing.T) {
		tenant := &model.Tenant{ProductCount: 100000}
		assert.NoError(t, g.CheckProductQuota(tenant))
	})
}

func TestGetQuotaErrorContext(t *testing.T) {
	g := manager.NewGuard()

	tenant := &model.Tenant{
		Plan:         &model.Plan{MaxProducts: 10},
		ProductCount: 10,
	}

	err := g.CheckProductQuota(tenant)
	require.Error(t, err)

	payload := manager.GetQuotaErrorContext(err)
	require.NotNil(t, payload)
	assert.Equal(t, "products", payload["quota_type"])
	assert.Equal(t, 10, payload["limit"])
	assert.Equal(t, "upgrade", payload["action"])

	assert.Nil(t, manager.GetQuotaErrorContext(manager.ErrSubscriptionExpired))
}
