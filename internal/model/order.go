package model

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCancelled OrderStatus = "cancelled"
)

// Order lives in the tenant schema.
type Order struct {
	ID         uint        `gorm:"primaryKey"`
	Number     string      `gorm:"type:varchar(40);not null;uniqueIndex"`
	TotalCents int64       `gorm:"not null;default:0"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	StoreUserID *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o Order) TableName() string   { return "orders" }
func (o Order) IsSharedModel() bool { return false }
