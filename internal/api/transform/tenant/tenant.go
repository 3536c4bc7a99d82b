package tenant

import (
	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/model"
)

// ToAPI maps a registry record onto the wire shape. The schema name stays
// internal; callers only ever see the identifier and hostname.
func ToAPI(t *model.Tenant) storeapi.StoreResponse {
	response := storeapi.StoreResponse{
		ID:                 t.ID,
		StoreName:          t.StoreName,
		Hostname:           t.DomainURL,
		Status:             string(t.Status),
		SuspendedReason:    t.SuspendedReason,
		SubscriptionStatus: string(t.SubscriptionStatus),
		TrialEndsAt:        t.TrialEndsAt,
		SubscriptionEndsAt: t.SubscriptionEndsAt,

		ProductCount:        t.ProductCount,
		OrderCountThisMonth: t.OrderCountThisMonth,
		StorageUsedMB:       t.StorageUsedMB,
	}

	if t.Plan != nil {
		response.Plan = t.Plan.Slug
	}

	return response
}
