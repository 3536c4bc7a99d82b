package store

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/api/transform"
	plantransform "github.com/shopmesh/shopmesh/internal/api/transform/plan"
	"github.com/shopmesh/shopmesh/internal/api/write"
)

// ListPlans returns the active plan catalog in display order. This endpoint
// is public; pricing pages need it before signup.
func (c *APIController) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plans, err := c.Manager.Plans.ListPlans(ctx)
	if err != nil {
		c.fail(ctx, w, "Failed to list plans", err)
		return
	}

	write.JSON(ctx, w, http.StatusOK, storeapi.PlanListResponse{
		Plans: transform.ToList(plans, plantransform.ToAPI),
	})
}
