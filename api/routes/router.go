package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitrina-app/vitrina-backend/api/controllers"
	"github.com/vitrina-app/vitrina-backend/api/middleware"
	cartsvc "github.com/vitrina-app/vitrina-backend/internal/cart"
	checkoutsvc "github.com/vitrina-app/vitrina-backend/internal/checkout"
	inventorysvc "github.com/vitrina-app/vitrina-backend/internal/inventory"
	ordersvc "github.com/vitrina-app/vitrina-backend/internal/orders"
	paymentsvc "github.com/vitrina-app/vitrina-backend/internal/paymentmethods"
	pricingsvc "github.com/vitrina-app/vitrina-backend/internal/pricing"
	productsvc "github.com/vitrina-app/vitrina-backend/internal/products"
	storesvc "github.com/vitrina-app/vitrina-backend/internal/stores"
	"github.com/vitrina-app/vitrina-backend/pkg/config"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
	"github.com/vitrina-app/vitrina-backend/pkg/metrics"
)

// Services bundles everything the router wires into controllers, so main
// does not have to thread a dozen positional arguments.
type Services struct {
	Stores    storesvc.Service
	Products  productsvc.Service
	Inventory inventorysvc.Service
	Pricing   pricingsvc.Service
	Cart      cartsvc.Service
	Checkout  checkoutsvc.Service
	Orders    ordersvc.Service
	Payments  paymentsvc.Service
}

// Dependencies carries the infrastructure handles used by health checks
// and observability endpoints. Nil fields are skipped.
type Dependencies struct {
	DB           controllers.Pinger
	Redis        controllers.Pinger
	HTTPMetrics  *metrics.HTTPMetrics
	PromRegistry *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies, svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/storefront/v1/stores/{storeSlug}", func(r chi.Router) {
		r.Get("/", controllers.StorefrontProfile(svcs.Stores, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Storefront(svcs.Stores, logg))
			r.Use(middleware.RequireSession(logg))

			r.Get("/payment-methods", controllers.PaymentMethodList(svcs.Payments, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Put("/{cartId}/items/{itemId}", controllers.CartUpdateItem(svcs.Cart, logg))
				r.Delete("/{cartId}/items/{itemId}", controllers.CartRemoveItem(svcs.Cart, logg))
				r.Delete("/{cartId}", controllers.CartClear(svcs.Cart, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/validate", controllers.CheckoutValidateStep(logg))
				r.Post("/", controllers.CheckoutSubmit(svcs.Checkout, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/stores", controllers.StoreCreate(svcs.Stores, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.StoreContext(logg))

			r.Route("/stores/me", func(r chi.Router) {
				r.Get("/", controllers.StoreProfile(svcs.Stores, logg))
				r.Post("/toggle", controllers.StoreToggle(svcs.Stores, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(svcs.Products, logg))
				r.Post("/", controllers.ProductCreate(svcs.Products, logg))
				r.Get("/{productId}", controllers.ProductDetail(svcs.Products, logg))
				r.Patch("/{productId}", controllers.ProductUpdate(svcs.Products, logg))
				r.Post("/{productId}/propagate-cost", controllers.CostPropagate(svcs.Pricing, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/warehouses/{warehouseId}/stock", controllers.StockList(svcs.Inventory, logg))
				r.Post("/supplies", controllers.ReceiveSupply(svcs.Inventory, logg))
				r.Route("/stock/{stockId}", func(r chi.Router) {
					r.Get("/", controllers.StockDetail(svcs.Inventory, logg))
					r.Get("/batches", controllers.BatchList(svcs.Inventory, logg))
					r.Post("/adjust", controllers.AdjustStock(svcs.Inventory, logg))
				})
			})

			r.Route("/price-lists", func(r chi.Router) {
				r.Get("/", controllers.PriceListList(svcs.Pricing, logg))
				r.Post("/", controllers.PriceListCreate(svcs.Pricing, logg))
				r.Route("/{priceListId}", func(r chi.Router) {
					r.Get("/", controllers.PriceListDetail(svcs.Pricing, logg))
					r.Put("/items", controllers.PriceListItemUpsert(svcs.Pricing, logg))
					r.Post("/copy", controllers.PriceListCopy(svcs.Pricing, logg))
					r.Post("/toggle", controllers.PriceListToggle(svcs.Pricing, logg))
					r.Get("/summary", controllers.PriceListSummary(svcs.Pricing, logg))
				})
				r.Route("/items/{itemId}", func(r chi.Router) {
					r.Put("/override", controllers.ManualOverrideSet(svcs.Pricing, logg))
					r.Delete("/override", controllers.ManualOverrideClear(svcs.Pricing, logg))
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
				r.Post("/{orderId}/status", controllers.OrderStatusUpdate(svcs.Orders, logg))
			})

			r.Route("/payment-methods", func(r chi.Router) {
				r.Get("/", controllers.PaymentMethodList(svcs.Payments, logg))
				r.Post("/", controllers.PaymentMethodCreate(svcs.Payments, logg))
				r.Post("/{methodId}/toggle", controllers.PaymentMethodToggle(svcs.Payments, logg))
			})
		})
	})

	return r
}
