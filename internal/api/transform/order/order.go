package order

import (
	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/model"
)

func ToAPI(o *model.Order) storeapi.OrderResponse {
	return storeapi.OrderResponse{
		ID:         o.ID,
		Number:     o.Number,
		TotalCents: o.TotalCents,
		Status:     string(o.Status),
	}
}
