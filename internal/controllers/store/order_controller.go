package store

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/api/transform"
	ordertransform "github.com/shopmesh/shopmesh/internal/api/transform/order"
	"github.com/shopmesh/shopmesh/internal/api/write"
	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/middleware"
	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/repo"
	"github.com/shopmesh/shopmesh/utils/token"
)

const orderNumberSuffixLength = 10

// CreateOrder records an order and bumps the monthly counter in the same
// transaction.
func (c *APIController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenant, err := middleware.TenantRecord(ctx)
	if err != nil {
		c.fail(ctx, w, "No store bound to request", err)
		return
	}

	body, ok := decode[storeapi.OrderRequest](ctx, w, r)
	if !ok {
		return
	}

	if body.TotalCents < 0 {
		validationError(ctx, w, "totalCents must not be negative")
		return
	}

	number, err := newOrderNumber()
	if err != nil {
		c.fail(ctx, w, "Failed to generate order number", err)
		return
	}

	order := &model.Order{
		Number:     number,
		TotalCents: body.TotalCents,
		Status:     model.OrderPending,
	}

	if claims, err := middleware.StoreClaims(ctx); err == nil {
		if id, parseErr := parseStoreUserID(claims.Subject); parseErr == nil {
			order.StoreUserID = &id
		}
	}

	err = c.Repository.Transaction(ctx, func(ctx context.Context, r repo.Repo) error {
		err := r.Create(ctx, order)
		if err != nil {
			return err
		}

		_, err = r.Increment(ctx, &model.Tenant{}, repo.OrderCountThisMonthField, 1, *tenantByID(tenant.ID))

		return err
	})
	if err != nil {
		c.fail(ctx, w, "Failed to create order", err)
		return
	}

	write.JSON(ctx, w, http.StatusCreated, ordertransform.ToAPI(order))
}

// ListOrders returns the store's orders, newest first.
func (c *APIController) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skip, top := pagination(r, constants.DefaultSkip, constants.DefaultTop)

	var orders []*model.Order

	query := repo.NewQuery().
		SetLimit(top).
		SetOffset(skip).
		Order(repo.OrderField{Field: repo.CreatedField, Direction: repo.Desc})

	total, err := c.Repository.List(ctx, model.Order{}, &orders, *query)
	if err != nil {
		c.fail(ctx, w, "Failed to list orders", err)
		return
	}

	write.JSON(ctx, w, http.StatusOK, storeapi.OrderListResponse{
		Orders: transform.ToList(orders, ordertransform.ToAPI),
		Total:  total,
	})
}

// newOrderNumber builds a human-referenceable unique order number, e.g.
// ORD-20260901-X7KQ2M41BZ.
func newOrderNumber() (string, error) {
	raw, err := token.NewOpaque()
	if err != nil {
		return "", err
	}

	return "ORD-" + time.Now().UTC().Format("20060102") + "-" +
		strings.ToUpper(raw[:orderNumberSuffixLength]), nil
}
