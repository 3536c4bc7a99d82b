package repo

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUniqueConstraint = errors.New("unique constraint violation")
	ErrCreateResource   = errors.New("failed to create resource")
	ErrUpdateResource   = errors.New("failed to update resource")
	ErrDeleteResource   = errors.New("failed to delete resource")
	ErrGetResource      = errors.New("failed to get resource")
	ErrTransaction      = errors.New("failed to execute transaction")
	ErrWithTenant       = errors.New("failed to use tenant from context")
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrTenantStorage    = errors.New("tenant storage unavailable")
	ErrMigratingTenant  = errors.New("failed to migrate tenant schema")
	ErrOffboardTenant   = errors.New("failed to drop tenant schema")
)
