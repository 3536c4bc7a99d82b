package store

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/api/transform"
	tenanttransform "github.com/shopmesh/shopmesh/internal/api/transform/tenant"
	"github.com/shopmesh/shopmesh/internal/api/write"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/manager"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

// CreateStore provisions a new store owned by the authenticated user.
func (c *APIController) CreateStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := meshcontext.ExtractCentralUserID(ctx)
	if err != nil {
		c.fail(ctx, w, "No authenticated user", err)
		return
	}

	body, ok := decode[storeapi.CreateStoreRequest](ctx, w, r)
	if !ok {
		return
	}

	if body.ID == "" || body.StoreName == "" {
		validationError(ctx, w, "id and storeName are required")
		return
	}

	tenant, err := c.Manager.Tenant.CreateStore(ctx, manager.CreateStoreParams{
		ID:        body.ID,
		StoreName: body.StoreName,
		OwnerID:   userID,
		PlanSlug:  body.PlanSlug,
	})
	if err != nil {
		c.fail(ctx, w, "Failed to provision store", err)
		return
	}

	write.JSON(ctx, w, http.StatusCreated, tenanttransform.ToAPI(tenant))
}

// ListStores returns the stores owned by the authenticated user.
func (c *APIController) ListStores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := meshcontext.ExtractCentralUserID(ctx)
	if err != nil {
		c.fail(ctx, w, "No authenticated user", err)
		return
	}

	skip, top := pagination(r, constants.DefaultSkip, constants.DefaultTop)

	tenants, total, err := c.Manager.Tenant.ListOwnedStores(ctx, userID, skip, top)
	if err != nil {
		c.fail(ctx, w, "Failed to list stores", err)
		return
	}

	write.JSON(ctx, w, http.StatusOK, storeapi.StoreListResponse{
		Stores: transform.ToList(tenants, tenanttransform.ToAPI),
		Total:  total,
	})
}

// GetStore returns one owned store by its identifier.
func (c *APIController) GetStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenant, err := c.ownedStore(r)
	if err != nil {
		c.fail(ctx, w, "Failed to load store", err)
		return
	}

	write.JSON(ctx, w, http.StatusOK, tenanttransform.ToAPI(tenant))
}

// SuspendStore takes an owned store offline with a reason.
func (c *APIController) SuspendStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenant, err := c.ownedStore(r)
	if err != nil {
		c.fail(ctx, w, "Failed to load store", err)
		return
	}

	body, ok := decode[storeapi.SuspendStoreRequest](ctx, w, r)
	if !ok {
		return
	}

	err = c.Manager.Tenant.SuspendStore(ctx, tenant.ID, body.Reason)
	if err != nil {
		c.fail(ctx, w, "Failed to suspend store", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActivateStore lifts a suspension from an owned store.
func (c *APIController) ActivateStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenant, err := c.ownedStore(r)
	if err != nil {
		c.fail(ctx, w, "Failed to load store", err)
		return
	}

	err = c.Manager.Tenant.ActivateStore(ctx, tenant.ID)
	if err != nil {
		c.fail(ctx, w, "Failed to activate store", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteStore removes an owned store, its hostnames and its schema.
func (c *APIController) DeleteStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenant, err := c.ownedStore(r)
	if err != nil {
		c.fail(ctx, w, "Failed to load store", err)
		return
	}

	err = c.Manager.Tenant.DeleteStore(ctx, tenant.ID)
	if err != nil {
		c.fail(ctx, w, "Failed to delete store", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedStore loads the store from the path and verifies the caller owns it.
// A store owned by someone else reads as not found, so identifiers cannot be
// probed.
func (c *APIController) ownedStore(r *http.Request) (*model.Tenant, error) {
	ctx := r.Context()

	userID, err := meshcontext.ExtractCentralUserID(ctx)
	if err != nil {
		return nil, err
	}

	tenant, err := c.Manager.Tenant.GetStore(ctx, r.PathValue("id"))
	if err != nil {
		return nil, err
	}

	if tenant.OwnerID != userID {
		return nil, repo.ErrTenantNotFound
	}

	return tenant, nil
}
