package model

import "time"

// Product lives in the tenant schema. The name is unique per store, not
// globally: two stores can both sell a "Widget".
type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PriceCents int64  `gorm:"not null;default:0"`
	Active     bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) TableName() string   { return "products" }
func (p Product) IsSharedModel() bool { return false }
