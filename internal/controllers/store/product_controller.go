package store

import (
	"context"
	"net/http"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/api/transform"
	producttransform "github.com/shopmesh/shopmesh/internal/api/transform/product"
	"github.com/shopmesh/shopmesh/internal/api/write"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/middleware"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
)

// CreateProduct adds a product to the store's catalog and bumps the product
// counter in the same transaction, so the quota guard never reads a count the
// catalog does not back.
func (c *APIController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenant, err := middleware.TenantRecord(ctx)
	if err != nil {
		c.fail(ctx, w, "No store bound to request", err)
		return
	}

	body, ok := decode[storeapi.ProductRequest](ctx, w, r)
	if !ok {
		return
	}

	if body.Name == "" {
		validationError(ctx, w, "name is required")
		return
	}

	if body.PriceCents < 0 {
		validationError(ctx, w, "priceCents must not be negative")
		return
	}

	product := &model.Product{
		Name:       body.Name,
		PriceCents: body.PriceCents,
		Active:     true,
	}

	err = c.Repository.Transaction(ctx, func(ctx context.Context, r repo.Repo) error {
		err := r.Create(ctx, product)
		if err != nil {
			return err
		}

		_, err = r.Increment(ctx, &model.Tenant{}, repo.ProductCountField, 1, *tenantByID(tenant.ID))

		return err
	})
	if err != nil {
		c.fail(ctx, w, "Failed to create product", err)
		return
	}

	write.JSON(ctx, w, http.StatusCreated, producttransform.ToAPI(product))
}

// ListProducts returns the store's catalog.
func (c *APIController) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skip, top := pagination(r, constants.DefaultSkip, constants.DefaultTop)

	var products []*model.Product

	query := repo.NewQuery().
		SetLimit(top).
		SetOffset(skip).
		Order(repo.OrderField{Field: repo.NameField, Direction: repo.Asc})

	total, err := c.Repository.List(ctx, model.Product{}, &products, *query)
	if err != nil {
		c.fail(ctx, w, "Failed to list products", err)
		return
	}

	write.JSON(ctx, w, http.StatusOK, storeapi.ProductListResponse{
		Products: transform.ToList(products, producttransform.ToAPI),
		Total:    total,
	})
}
