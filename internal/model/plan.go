package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PlanFree       = "free"
	PlanBasic      = "basic"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Plan is immutable reference data describing pricing and resource ceilings.
// A quota of zero means unlimited.
type Plan struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug string    `gorm:"type:varchar(50);not null;unique"`
	Name string    `gorm:"type:varchar(255);not null"`

	PriceMonthlyCents int64 `gorm:"not null;default:0"`
	PriceYearlyCents  int64 `gorm:"not null;default:0"`

	MaxProducts       int `gorm:"not null;default:0"`
	MaxOrdersPerMonth int `gorm:"not null;default:0"`
	MaxStorageMB      int `gorm:"not null;default:0"`
	MaxUsers          int `gorm:"not null;default:0"`

	Features []string `gorm:"serializer:json"`

	Active   bool `gorm:"not null;default:true"`
	Featured bool `gorm:"not null;default:false"`
	Custom   bool `gorm:"not null;default:false"`

	SortOrder int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Plan) TableName() string   { return "public.plans" }
func (p Plan) IsSharedModel() bool { return true }

func (p *Plan) IsFree() bool {
	return p.PriceMonthlyCents == 0 && p.PriceYearlyCents == 0
}

func (p *Plan) UnlimitedProducts() bool { return p.MaxProducts == 0 }
func (p *Plan) UnlimitedOrders() bool   { return p.MaxOrdersPerMonth == 0 }
func (p *Plan) UnlimitedStorage() bool  { return p.MaxStorageMB == 0 }

func (p *Plan) CanAddProduct(currentCount int) bool {
	if p.UnlimitedProducts() {
		return true
	}

	return currentCount < p.MaxProducts
}

func (p *Plan) CanCreateOrder(currentCount int) bool {
	if p.UnlimitedOrders() {
		return true
	}

	return currentCount < p.MaxOrdersPerMonth
}

// CanUploadFile checks the storage ceiling against current usage plus the
// size of the upload being attempted.
func (p *Plan) CanUploadFile(currentUsageMB, fileSizeMB int) bool {
	if p.UnlimitedStorage() {
		return true
	}

	return currentUsageMB+fileSizeMB <= p.MaxStorageMB
}
