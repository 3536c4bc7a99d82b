package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopmesh/shopmesh/internal/model"
	"github.com/shopmesh/shopmesh/internal/session"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

type ctxKey string

const (
	tenantRecordKey = ctxKey("tenantRecord")
	storeClaimsKey  = ctxKey("storeClaims")
)

var (
	ErrNoTenantRecord = errors.New("no store bound to request context")
	ErrNoStoreClaims  = errors.New("no store session in request context")
)

// InjectRequestID injects a RequestID into the context to be used by other middlewares
func InjectRequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(meshcontext.InjectRequestID(r.Context())))
		})
	}
}

// withTenantRecord stashes the resolved registry row so downstream guards do
// not re-query it.
func withTenantRecord(ctx context.Context, tenant *model.Tenant) context.Context {
	return context.WithValue(ctx, tenantRecordKey, tenant)
}

// TenantRecord returns the registry row the resolver bound to this request.
func TenantRecord(ctx context.Context) (*model.Tenant, error) {
	tenant, ok := ctx.Value(tenantRecordKey).(*model.Tenant)
	if !ok || tenant == nil {
		return nil, ErrNoTenantRecord
	}

	return tenant, nil
}

func withStoreClaims(ctx context.Context, claims *session.Claims) context.Context {
	return context.WithValue(ctx, storeClaimsKey, claims)
}

// StoreClaims returns the store session bound to this request.
func StoreClaims(ctx context.Context) (*session.Claims, error) {
	claims, ok := ctx.Value(storeClaimsKey).(*session.Claims)
	if !ok || claims == nil {
		return nil, ErrNoStoreClaims
	}

	return claims, nil
}
