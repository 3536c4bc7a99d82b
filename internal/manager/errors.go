package manager

import "errors"

var (
	ErrValidatingTenant     = errors.New("failed to validate tenant")
	ErrCreatingTenant       = errors.New("failed to create tenant")
	ErrProvisioningProgress = errors.New("store identifier already taken")
	ErrReservedSubdomain    = errors.New("store identifier is reserved")
	ErrInvalidSchema        = errors.New("invalid schema name")
	ErrListTenants          = errors.New("failed to get stores")
	ErrTenantAlreadyActive  = errors.New("store is not suspended")
	ErrTenantSuspended      = errors.New("store is suspended")

	ErrPlanNotFound = errors.New("plan not found")
	ErrPlanInactive = errors.New("plan is not available")

	ErrSubscriptionInactive = errors.New("subscription is not active")
	ErrSubscriptionExpired  = errors.New("subscription has expired")
	ErrQuotaExceeded        = errors.New("plan quota exceeded")

	ErrNotStoreOwner     = errors.New("user does not own this store")
	ErrLoginTokenInvalid = errors.New("login token is invalid or expired")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrHashingPassword    = errors.New("failed to hash password")
)
