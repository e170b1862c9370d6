package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beanflow/cafe-pos-backend/api/controllers"
	"github.com/beanflow/cafe-pos-backend/api/middleware"
	"github.com/beanflow/cafe-pos-backend/internal/catalog"
	"github.com/beanflow/cafe-pos-backend/internal/ledger"
	"github.com/beanflow/cafe-pos-backend/internal/orders"
	"github.com/beanflow/cafe-pos-backend/internal/register"
	"github.com/beanflow/cafe-pos-backend/internal/stock"
	"github.com/beanflow/cafe-pos-backend/pkg/config"
	"github.com/beanflow/cafe-pos-backend/pkg/db"
	"github.com/beanflow/cafe-pos-backend/pkg/logger"
	"github.com/beanflow/cafe-pos-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	promRegistry *prometheus.Registry,
	session *register.Session,
	catalogService catalog.Service,
	stockSnapshot *stock.Snapshot,
	ordersService orders.Service,
	ledgerService ledger.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/register", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(session, logg))
				r.Delete("/", controllers.CartClear(session, logg))
				r.Post("/items", controllers.CartAdd(session, logg))
				r.Post("/items/increment", controllers.CartIncrement(session, logg))
				r.Post("/items/decrement", controllers.CartDecrement(session, logg))
			})
			r.Post("/checkout", controllers.Checkout(session, ordersService, logg))
			r.Route("/receipt", func(r chi.Router) {
				r.Get("/", controllers.ReceiptFetch(session, logg))
				r.Post("/printed", controllers.ReceiptPrinted(session, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Post("/", controllers.ProductCreate(catalogService, logg))
			r.Put("/{productId}", controllers.ProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(catalogService, logg))
			r.Get("/{productId}/advisory", controllers.ProductAdvisory(catalogService, stockSnapshot, logg))
		})
		r.Post("/catalog/refresh", controllers.CatalogRefresh(catalogService, logg))

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", controllers.IngredientList(stockSnapshot, logg))
		})
		r.Post("/stock/refresh", controllers.StockRefresh(stockSnapshot, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			r.Get("/{orderId}/ledger", controllers.OrderLedger(ledgerService, logg))
			r.Post("/{orderId}/status", controllers.OrderSetStatus(ordersService, logg))
			r.Route("/{orderId}/completion", func(r chi.Router) {
				r.Post("/request", controllers.OrderRequestCompletion(ordersService, logg))
				r.Post("/cancel", controllers.OrderCancelCompletion(ordersService, logg))
				r.Post("/confirm", controllers.OrderConfirmCompletion(ordersService, logg))
			})
		})
	})

	return r
}
