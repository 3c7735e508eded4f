package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mateovidal/techmart-backend/api/controllers"
	"github.com/mateovidal/techmart-backend/api/middleware"
	buildersvc "github.com/mateovidal/techmart-backend/internal/builder"
	cartsvc "github.com/mateovidal/techmart-backend/internal/cart"
	checkoutsvc "github.com/mateovidal/techmart-backend/internal/checkout"
	inventorysvc "github.com/mateovidal/techmart-backend/internal/inventory"
	orderssvc "github.com/mateovidal/techmart-backend/internal/orders"
	productssvc "github.com/mateovidal/techmart-backend/internal/products"
	"github.com/mateovidal/techmart-backend/pkg/config"
	"github.com/mateovidal/techmart-backend/pkg/db"
	"github.com/mateovidal/techmart-backend/pkg/logger"
	"github.com/mateovidal/techmart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	cartService cartsvc.Service,
	inventoryService inventorysvc.Service,
	productService productssvc.Service,
	orderService orderssvc.Service,
	checkoutService checkoutsvc.Service,
	builderService buildersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.ShopperContext(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Get("/items/{productID}", controllers.CartContains(cartService, logg))
			r.Patch("/items/{productID}", controllers.CartUpdateQuantity(cartService, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Route("/build", func(r chi.Router) {
			r.Get("/", controllers.BuildGet(builderService, logg))
			r.Get("/summary", controllers.BuildSummary(builderService, logg))
			r.Post("/components", controllers.BuildSelect(builderService, logg))
			r.Delete("/components/{category}", controllers.BuildDeselect(builderService, logg))
			r.Post("/commit", controllers.BuildCommit(builderService, logg))
			r.Delete("/", controllers.BuildClear(builderService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(productService, logg))
			r.Post("/", controllers.ProductsCreate(productService, logg))
			r.Get("/{productID}", controllers.ProductsGet(productService, logg))
			r.Patch("/{productID}", controllers.ProductsUpdate(productService, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/{productID}", controllers.InventoryGet(inventoryService, logg))
			r.Post("/{productID}/adjust", controllers.InventoryAdjust(inventoryService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrdersPlace(orderService, logg))
			r.Get("/{orderID}", controllers.OrdersGet(orderService, logg))
			r.Post("/{orderID}/status", controllers.OrdersUpdateStatus(orderService, logg))
			r.Get("/customer/{customerID}", controllers.OrdersListByCustomer(orderService, logg))
		})
	})

	return r
}
