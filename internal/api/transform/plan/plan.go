package plan

import (
	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/model"
)

func ToAPI(p *model.Plan) storeapi.PlanResponse {
	return storeapi.PlanResponse{
		Slug:              p.Slug,
		Name:              p.Name,
		PriceMonthlyCents: p.PriceMonthlyCents,
		PriceYearlyCents:  p.PriceYearlyCents,
		MaxProducts:       p.MaxProducts,
		MaxOrdersPerMonth: p.MaxOrdersPerMonth,
		MaxStorageMB:      p.MaxStorageMB,
		MaxUsers:          p.MaxUsers,
		Features:          p.Features,
		Featured:          p.Featured,
	}
}
