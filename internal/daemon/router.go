package daemon

import (
	"net/http"

	"github.com/shopmesh/shopmesh/internal/config"
	"github.com/shopmesh/shopmesh/internal/controllers/store"
	"github.com/shopmesh/shopmesh/internal/middleware"
	"github.com/shopmesh/shopmesh/internal/model"
	meshcontext "github.com/shopmesh/shopmesh/utils/context"
)

// NewRouter builds the full request pipeline. One listener serves two
// surfaces: the resolver binds a store for tenant-domain requests and the
// dispatcher picks the matching route set, so central routes are unreachable
// from store domains and vice versa.
func NewRouter(ctr *store.APIController, cfg *config.Config) http.Handler {
	central := centralMux(ctr)
	tenant := tenantMux(ctr)

	dispatch := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if meshcontext.HasTenant(r.Context()) {
			tenant.ServeHTTP(w, r)
			return
		}

		central.ServeHTTP(w, r)
	})

	// Middlewares run in a FILO. Last middleware on the slice is the first one ran
	// First middleware to run should be the InjectRequestID
	handler := http.Handler(dispatch)
	for _, mw := range []func(http.Handler) http.Handler{
		middleware.ResolveTenant(ctr.Manager.Tenant, cfg),
		middleware.PanicRecoveryMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.InjectRequestID(),
	} {
		handler = mw(handler)
	}

	return handler
}

// centralMux serves the landlord application on the base domain.
func centralMux(ctr *store.APIController) *http.ServeMux {
	authed := middleware.RequireCentralUser(ctr.Sessions)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", ctr.Register)
	mux.HandleFunc("POST /login", ctr.Login)
	mux.HandleFunc("POST /logout", ctr.Logout)
	mux.Handle("GET /me", authed(http.HandlerFunc(ctr.CurrentUser)))

	mux.HandleFunc("GET /plans", ctr.ListPlans)

	mux.Handle("POST /stores", authed(http.HandlerFunc(ctr.CreateStore)))
	mux.Handle("GET /stores", authed(http.HandlerFunc(ctr.ListStores)))
	mux.Handle("GET /stores/{id}", authed(http.HandlerFunc(ctr.GetStore)))
	mux.Handle("POST /stores/{id}/suspend", authed(http.HandlerFunc(ctr.SuspendStore)))
	mux.Handle("POST /stores/{id}/activate", authed(http.HandlerFunc(ctr.ActivateStore)))
	mux.Handle("DELETE /stores/{id}", authed(http.HandlerFunc(ctr.DeleteStore)))

	mux.Handle("GET /sso/{id}", authed(http.HandlerFunc(ctr.LaunchSSO)))

	return mux
}

// tenantMux serves the storefront surface on store domains.
func tenantMux(ctr *store.APIController) *http.ServeMux {
	guard := ctr.Manager.Guard

	storeUser := middleware.RequireStoreUser(ctr.Sessions)
	adminRole := middleware.RequireStoreRole(model.RoleAdmin)
	subscribed := middleware.RequireActiveSubscription(guard)
	productQuota := middleware.RequireProductQuota(guard)
	orderQuota := middleware.RequireOrderQuota(guard)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /sso", ctr.RedeemSSO)

	mux.HandleFunc("GET /products", ctr.ListProducts)
	mux.Handle("POST /products",
		storeUser(adminRole(subscribed(productQuota(http.HandlerFunc(ctr.CreateProduct))))))

	mux.Handle("GET /orders", storeUser(adminRole(http.HandlerFunc(ctr.ListOrders))))

	// Orders come from shoppers; no store session is required, only an active
	// subscription and headroom under the monthly ceiling.
	mux.Handle("POST /orders", subscribed(orderQuota(http.HandlerFunc(ctr.CreateOrder))))

	mux.Handle("POST /media", storeUser(adminRole(subscribed(http.HandlerFunc(ctr.UploadMedia)))))

	return mux
}
