package model

import (
	"time"

	"github.com/google/uuid"
)

// LoginToken is a single-use SSO bridge credential. Tokens live in the shared
// schema only and are deleted on redemption; expired rows are purged
// opportunistically on the next issuance.
type LoginToken struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token    string    `gorm:"type:varchar(64);not null;unique"`
	UserID   uuid.UUID `gorm:"type:uuid;not null"`
	TenantID string    `gorm:"type:varchar(63);not null"`

	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (t LoginToken) TableName() string   { return "public.login_tokens" }
func (t LoginToken) IsSharedModel() bool { return true }

func (t *LoginToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
