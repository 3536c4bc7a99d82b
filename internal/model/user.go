package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a central-domain identity. It owns tenants and is the source of
// trust for SSO bridging.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;unique"`
	Name         string    `gorm:"type:varchar(255);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`

	EmailVerifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) TableName() string   { return "public.users" }
func (u User) IsSharedModel() bool { return true }

type StoreRole string

const (
	RoleAdmin    StoreRole = "admin"
	RoleCustomer StoreRole = "customer"
)

// StoreUser is a tenant-local identity materialized inside a store's schema.
// IDs are scoped to the tenant: the same numeric ID refers to different people
// in different stores, and must never be treated as globally unique.
type StoreUser struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(255);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`

	Role StoreRole `gorm:"type:varchar(20);not null;default:'customer'"`

	EmailVerifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u StoreUser) TableName() string   { return "store_users" }
func (u StoreUser) IsSharedModel() bool { return false }

func (u *StoreUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}
