package product

import (
	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/model"
)

func ToAPI(p *model.Product) storeapi.ProductResponse {
	return storeapi.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Active:     p.Active,
	}
}
