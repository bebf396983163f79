package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minimalstore/storefront-api/api/controllers"
	webhookcontrollers "github.com/minimalstore/storefront-api/api/controllers/webhooks"
	"github.com/minimalstore/storefront-api/api/middleware"
	"github.com/minimalstore/storefront-api/internal/cart"
	"github.com/minimalstore/storefront-api/internal/orders"
	"github.com/minimalstore/storefront-api/internal/payments"
	"github.com/minimalstore/storefront-api/internal/products"
	"github.com/minimalstore/storefront-api/internal/users"
	stripewebhook "github.com/minimalstore/storefront-api/internal/webhooks/stripe"
	"github.com/minimalstore/storefront-api/internal/wishlist"
	"github.com/minimalstore/storefront-api/pkg/config"
	"github.com/minimalstore/storefront-api/pkg/db"
	"github.com/minimalstore/storefront-api/pkg/logger"
	"github.com/minimalstore/storefront-api/pkg/metrics"
	"github.com/minimalstore/storefront-api/pkg/redis"
	"github.com/minimalstore/storefront-api/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	productsSvc products.Service,
	cartSvc cart.Service,
	wishlistSvc wishlist.Service,
	ordersSvc orders.Service,
	paymentsSvc payments.Service,
	usersSvc users.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	var redisPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = pingerFor(redisClient)
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": pingerFor(dbP),
			"redis":    redisPinger,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg))
	})

	// catalog browsing does not require a session
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(productsSvc, logg))
		r.Get("/{productId}", controllers.ProductDetail(productsSvc, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartSvc, logg))
			r.Post("/", controllers.CartAdd(cartSvc, logg))
			r.Put("/{itemId}", controllers.CartUpdateItem(cartSvc, logg))
			r.Delete("/{itemId}", controllers.CartRemoveItem(cartSvc, logg))
			r.Delete("/", controllers.CartClear(cartSvc, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(wishlistSvc, logg))
			r.Post("/", controllers.WishlistAdd(wishlistSvc, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(wishlistSvc, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(ordersSvc, logg))
			r.Get("/", controllers.OrderList(ordersSvc, logg))
			r.Get("/summary", controllers.OrderSummary(ordersSvc, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersSvc, logg))
			r.Get("/{orderId}/track", controllers.OrderTrack(ordersSvc, logg))
			r.Post("/{orderId}/reorder", controllers.OrderReorder(ordersSvc, logg))
			r.Put("/{orderId}/cancel", controllers.OrderCancel(ordersSvc, logg))
			r.With(middleware.RequireAdmin(cfg.App, logg)).
				Put("/{orderId}/status", controllers.OrderUpdateStatus(ordersSvc, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/create-intent", controllers.PaymentCreateIntent(ordersSvc, logg))
			r.Post("/confirm", controllers.PaymentConfirm(ordersSvc, logg))
			r.Get("/methods", controllers.PaymentMethods(paymentsSvc, logg))
			r.Get("/history", controllers.PaymentHistory(paymentsSvc, logg))
			r.With(middleware.RequireAdmin(cfg.App, logg)).
				Post("/refund", controllers.PaymentRefund(paymentsSvc, logg))
		})

		r.Route("/users/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(usersSvc, logg))
			r.Put("/", controllers.ProfileUpdate(usersSvc, logg))
		})
	})

	return r
}

func pingerFor(p db.Pinger) controllers.Pinger {
	if p == nil {
		return nil
	}
	return controllers.PingerFunc(func(r *http.Request) error {
		return p.Ping(r.Context())
	})
}
