package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skillnotes/skillnotes-backend/api/controllers"
	cartcontrollers "github.com/skillnotes/skillnotes-backend/api/controllers/cart"
	"github.com/skillnotes/skillnotes-backend/api/middleware"
	"github.com/skillnotes/skillnotes-backend/internal/cart"
	"github.com/skillnotes/skillnotes-backend/pkg/config"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
)

// CartStore is everything the routes need from the cart store directly.
type CartStore interface {
	cartcontrollers.Clearer
	cartcontrollers.PurchaseReader
	controllers.CartState
}

// Deps carries the services mounted by NewRouter.
type Deps struct {
	Storage    controllers.Pinger
	Cart       CartStore
	Calculator cartcontrollers.Calculator
	Catalog    interface {
		controllers.Catalog
		cart.ProductLookup
	}
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Notifications,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Storage, logg))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(deps.Catalog, logg))
		r.Get("/products/{id}", controllers.ProductGet(deps.Catalog, deps.Cart, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(deps.Calculator, logg))
			r.Delete("/", cartcontrollers.CartClear(deps.Cart, deps.Calculator, logg))
			r.Post("/items", cartcontrollers.CartAddItem(deps.Calculator, logg))
			r.Post("/items/{id}", cartcontrollers.CartAddProduct(deps.Calculator, deps.Catalog, logg))
			r.Delete("/items/{id}", cartcontrollers.CartRemoveItem(deps.Calculator, logg))
			r.Post("/coupon", cartcontrollers.CouponApply(deps.Calculator, logg))
			r.Delete("/coupon", cartcontrollers.CouponRemove(deps.Calculator, logg))
		})

		r.Group(func(r chi.Router) {
			if cfg.App.RequireAuth {
				r.Use(middleware.Auth(cfg.JWT, logg))
			}
			r.Post("/checkout", cartcontrollers.Checkout(deps.Calculator, logg))
			r.Get("/purchases", cartcontrollers.PurchasesList(deps.Cart, logg))
		})
	})

	return r
}
