package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/utils/ptr"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestTenantValidate(t *testing.T) {
	tests := []struct {
		name     string
		tenantID string
		wantErr  error
	}{
		{name: "valid slug", tenantID: "acme-store"},
		{name: "valid with digits", tenantID: "shop1"},
		{name: "too short", tenantID: "ab", wantErr: model.ErrTenantIDLength},
		{name: "uppercase", tenantID: "Acme", wantErr: model.ErrInvalidTenantID},
		{name: "leading hyphen", tenantID: "-acme", wantErr: model.ErrInvalidTenantID},
		{name: "trailing hyphen", tenantID: "acme-", wantErr: model.ErrInvalidTenantID},
		{name: "dots", tenantID: "acme.store", wantErr: model.ErrInvalidTenantID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant := &model.Tenant{ID: tt.tenantID}

			err := tenant.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHasActiveSubscription(t *testing.T) {
	tests := []struct {
		name   string
		tenant model.Tenant
		want   bool
	}{
		{
			name: "trial within window",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionTrial,
				TrialEndsAt:        ptr.PointTo(now.Add(5 * 24 * time.Hour)),
			},
			want: true,
		},
		{
			name: "trial window closed",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionTrial,
				TrialEndsAt:        ptr.PointTo(now.Add(-time.Hour)),
			},
			want: false,
		},
		{
			name: "trial without end date",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionTrial,
			},
			want: false,
		},
		{
			name: "active without end date",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionActive,
			},
			want: true,
		},
		{
			name: "active with future end date",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionActive,
				SubscriptionEndsAt: ptr.PointTo(now.Add(30 * 24 * time.Hour)),
			},
			want: true,
		},
		{
			name: "active but lapsed yesterday",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionActive,
				SubscriptionEndsAt: ptr.PointTo(now.Add(-24 * time.Hour)),
			},
			want: false,
		},
		{
			name: "past due keeps grace access",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionPastDue,
			},
			want: true,
		},
		{
			name: "cancelled",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionCancelled,
			},
			want: false,
		},
		{
			name: "expired",
			tenant: model.Tenant{
				SubscriptionStatus: model.SubscriptionExpired,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tenant.HasActiveSubscription(now))
		})
	}
}

func TestIsSuspended(t *testing.T) {
	assert.True(t, (&model.Tenant{Status: model.TenantStatusSuspended}).IsSuspended())
	assert.False(t, (&model.Tenant{Status: model.TenantStatusActive}).IsSuspended())
}
