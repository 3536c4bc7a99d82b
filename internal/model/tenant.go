package model

import (
	"errors"
	"regexp"
	"time"

	multitenancy "github.com/bartventer/gorm-multitenancy/v8"
	"github.com/google/uuid"
)

type (
	TenantStatus       string
	SubscriptionStatus string
	BillingCycle       string
)

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"

	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"

	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

var (
	ErrInvalidTenantID = errors.New("tenant ID must be lowercase alphanumeric with hyphens")
	ErrTenantIDLength  = errors.New("tenant ID must be between 3 and 63 characters")
)

// tenantIDPattern: the identifier doubles as the subdomain label, so it must be
// a valid DNS label.
var tenantIDPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Tenant is the registry record of one provisioned store. It lives in the
// shared schema; the store's business data lives in the schema named by the
// embedded TenantModel.
type Tenant struct {
	multitenancy.TenantModel

	ID        string     `gorm:"type:varchar(63);not null;unique"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null"`
	StoreName string     `gorm:"type:varchar(255);not null"`

	Status          TenantStatus `gorm:"type:varchar(50);not null;default:'active'"`
	SuspendedAt     *time.Time
	SuspendedReason string `gorm:"type:varchar(255)"`

	PlanID *uuid.UUID `gorm:"type:uuid"`
	Plan   *Plan      `gorm:"foreignKey:PlanID"`

	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(50);not null;default:'trial'"`
	BillingCycle       BillingCycle       `gorm:"type:varchar(20);not null;default:'monthly'"`
	TrialEndsAt        *time.Time
	SubscriptionEndsAt *time.Time

	ProductCount        int `gorm:"not null;default:0"`
	OrderCountThisMonth int `gorm:"not null;default:0"`
	StorageUsedMB       int `gorm:"not null;default:0"`
	UsageResetDate      *time.Time
}

func (t Tenant) TableName() string   { return "public.tenants" }
func (t Tenant) IsSharedModel() bool { return true }

func (t *Tenant) Validate() error {
	if len(t.ID) < 3 || len(t.ID) > 63 {
		return ErrTenantIDLength
	}

	if !tenantIDPattern.MatchString(t.ID) {
		return ErrInvalidTenantID
	}

	return nil
}

func (t *Tenant) IsSuspended() bool {
	return t.Status == TenantStatusSuspended
}

// IsOnTrial reports whether the trial window is still open at the given time.
func (t *Tenant) IsOnTrial(now time.Time) bool {
	return t.SubscriptionStatus == SubscriptionTrial &&
		t.TrialEndsAt != nil &&
		t.TrialEndsAt.After(now)
}

// HasActiveSubscription reports whether the store may use gated features.
// A store qualifies while its trial window is open, while an active
// subscription has no end date or a future one, or while past_due (grace
// period). Cancelled, expired and lapsed-active subscriptions do not qualify.
func (t *Tenant) HasActiveSubscription(now time.Time) bool {
	if t.IsOnTrial(now) {
		return true
	}

	if t.SubscriptionStatus == SubscriptionActive {
		if t.SubscriptionEndsAt == nil {
			return true
		}

		return t.SubscriptionEndsAt.After(now)
	}

	return t.SubscriptionStatus == SubscriptionPastDue
}
