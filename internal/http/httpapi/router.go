package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"storefront/internal/http/handlers"
	"storefront/internal/infra"
	"storefront/internal/middleware"
)

// NewRouter wires the storefront API surface.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Locale(cfg.DefaultLocale, app.Geo),
	)
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", app.ListProducts)
		r.Get("/products/{id}", app.GetProduct)
		r.Post("/orders", app.CreateOrder)

		r.Route("/paypal", func(r chi.Router) {
			r.Post("/create-order", app.CreatePayPalOrder)
			r.Post("/capture-order", app.CapturePayPalOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", app.AdminLogin)
			r.Post("/logout", app.AdminLogout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(app.AdminToken))
				r.Get("/products", app.GetAllowlist)
				r.Post("/products", app.EnableProduct)
				r.Delete("/products", app.DisableProduct)
				r.Get("/shops", app.ListShops)
				r.Get("/orders", app.RecentOrders)
			})
		})
	})

	if app.Files != nil {
		r.Get("/static/*", app.ServeAsset)
	}

	return r
}
