package model

import (
	"time"

	"github.com/google/uuid"
)

// Domain maps a fully-qualified hostname to a tenant. Hostnames are unique
// across all tenants.
type Domain struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Domain   string    `gorm:"type:varchar(255);not null;unique"`
	TenantID string    `gorm:"type:varchar(63);not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d Domain) TableName() string   { return "public.domains" }
func (d Domain) IsSharedModel() bool { return true }
