package context

import (
	"context"
	"errors"

	"github.com/bartventer/gorm-multitenancy/middleware/nethttp/v8"
	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/constants"
	"github.com/shopmesh/shopmesh/internal/errs"
)

var (
	ErrExtractTenantID   = errors.New("could not extract tenant ID from context")
	ErrGetRequestID      = errors.New("no requestID found in context")
	ErrExtractCentralUID = errors.New("no central user found in context")
)

// ExtractTenantID returns the tenant identifier bound to the request context by
// the host resolver middleware, or by RunAsTenant for non-HTTP entry points.
func ExtractTenantID(ctx context.Context) (string, error) {
	tenantID, ok := ctx.Value(nethttp.TenantKey).(string)
	if !ok || tenantID == "" {
		return "", errs.Wrap(ErrExtractTenantID, nethttp.ErrTenantInvalid)
	}

	return tenantID, nil
}

// CreateTenantContext binds a tenant identifier to the context. The binding is
// strictly per-context; there is no process-wide current tenant.
func CreateTenantContext(ctx context.Context, tenantID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, nethttp.TenantKey, tenantID)
}

// HasTenant reports whether a tenant is bound without returning an error.
func HasTenant(ctx context.Context) bool {
	_, err := ExtractTenantID(ctx)
	return err == nil
}

type key string

const requestID = key("requestID")

func InjectRequestID(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestID, uuid.NewString())
}

func GetRequestID(ctx context.Context) (string, error) {
	requestID, ok := ctx.Value(requestID).(string)
	if !ok || requestID == "" {
		return "", ErrGetRequestID
	}

	return requestID, nil
}

// InjectCentralUserID records the authenticated central-domain user for the
// request. It is set by the central session middleware only; tenant sessions
// never populate it.
func InjectCentralUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.CentralUser, userID)
}

func ExtractCentralUserID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(constants.CentralUser).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, ErrExtractCentralUID
	}

	return userID, nil
}
