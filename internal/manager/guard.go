package manager

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopmesh/shopmesh/internal/model"
)

type QuotaType string

const (
	QuotaProducts QuotaType = "products"
	QuotaOrders   QuotaType = "orders"
	QuotaStorage  QuotaType = "storage"
)

// QuotaError carries which ceiling was hit and what the ceiling is, so the
// API layer can tell the caller exactly what to upgrade.
type QuotaError struct {
	Type  QuotaType
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota of %d reached", e.Type, e.Limit)
}

func (e *QuotaError) Unwrap() error {
	return ErrQuotaExceeded
}

// GetQuotaErrorContext extracts the quota payload from an error chain, if a
// QuotaError is present.
func GetQuotaErrorContext(err error) map[string]any {
	var qe *QuotaError
	if !errors.As(err, &qe) {
		return nil
	}

	return map[string]any{
		"quota_type": string(qe.Type),
		"limit":      qe.Limit,
		"action":     "upgrade",
	}
}

// Guard enforces subscription state and plan ceilings for billing-gated
// actions. It reads counters; it never mutates them.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// CheckSubscription reports whether the store may use gated features right
// now. A trial past its window and a lapsed active subscription map to
// ErrSubscriptionExpired; cancelled and expired subscriptions map to
// ErrSubscriptionInactive.
func (g *Guard) CheckSubscription(tenant *model.Tenant) error {
	now := time.Now()

	if tenant.HasActiveSubscription(now) {
		return nil
	}

	switch tenant.SubscriptionStatus {
	case model.SubscriptionTrial, model.SubscriptionActive:
		return ErrSubscriptionExpired
	default:
		return ErrSubscriptionInactive
	}
}

// CheckProductQuota permits creating one more product while the current count
// is strictly below the ceiling. Usage equal to the limit denies.
func (g *Guard) CheckProductQuota(tenant *model.Tenant) error {
	plan := tenant.Plan
	if plan == nil || plan.CanAddProduct(tenant.ProductCount) {
		return nil
	}

	return &QuotaError{Type: QuotaProducts, Limit: plan.MaxProducts}
}

// CheckOrderQuota permits one more order this month under the same strict
// rule as products.
func (g *Guard) CheckOrderQuota(tenant *model.Tenant) error {
	plan := tenant.Plan
	if plan == nil || plan.CanCreateOrder(tenant.OrderCountThisMonth) {
		return nil
	}

	return &QuotaError{Type: QuotaOrders, Limit: plan.MaxOrdersPerMonth}
}

// CheckStorageQuota accounts for the size of the incoming upload, not just
// the current usage.
func (g *Guard) CheckStorageQuota(tenant *model.Tenant, fileSizeMB int) error {
	plan := tenant.Plan
	if plan == nil || plan.CanUploadFile(tenant.StorageUsedMB, fileSizeMB) {
		return nil
	}

	return &QuotaError{Type: QuotaStorage, Limit: plan.MaxStorageMB}
}
