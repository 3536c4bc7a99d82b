package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/log"
	"github.com/shopmesh/shopmesh/internal/manager"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

// ResolveTenant inspects the request host and binds the matching store to the
// request context. Requests to the base domain, to a bare single-label host or
// to a reserved subdomain pass through as central-domain requests with no
// tenant bound. An unknown hostname is rejected with 404; a suspended store
// with 503.
func ResolveTenant(tenants manager.Tenant, cfg *config.Config) func(http.Handler) http.Handler {
	baseDomain := strings.ToLower(cfg.Tenancy.BaseDomain)
	reserved := cfg.Tenancy.Reserved()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			host := normalizeHost(r.Host)

			if isCentralHost(host, baseDomain) {
				next.ServeHTTP(w, r)
				return
			}

			if label, ok := strings.CutSuffix(host, "."+baseDomain); ok && slices.Contains(reserved, label) {
				next.ServeHTTP(w, r)
				return
			}

			tenant, err := tenants.GetStoreByHostname(ctx, host)
			if err != nil {
				log.Warn(ctx, "Unknown store hostname", slog.String("Host", host))
				respondError(ctx, w, err)

				return
			}

			if tenant.IsSuspended() {
				respondError(ctx, w, &manager.SuspensionError{Reason: tenant.SuspendedReason})
				return
			}

			ctx = meshcontext.CreateTenantContext(ctx, tenant.ID)
			ctx = withTenantRecord(ctx, tenant)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// normalizeHost strips an optional port and lowercases the hostname.
func normalizeHost(host string) string {
	if hostOnly, _, err := net.SplitHostPort(host); err == nil {
		host = hostOnly
	}

	return strings.ToLower(host)
}

// isCentralHost reports whether the request targets the landlord application.
// Single-label hosts such as a bare "localhost" always count as central.
func isCentralHost(host, baseDomain string) bool {
	return host == baseDomain || !strings.Contains(host, ".")
}
