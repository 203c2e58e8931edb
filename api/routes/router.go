package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nivethan26/farmers-gate-backend/api/controllers"
	"github.com/Nivethan26/farmers-gate-backend/api/middleware"
	"github.com/Nivethan26/farmers-gate-backend/internal/auth"
	"github.com/Nivethan26/farmers-gate-backend/internal/cart"
	"github.com/Nivethan26/farmers-gate-backend/internal/negotiations"
	"github.com/Nivethan26/farmers-gate-backend/internal/orders"
	products "github.com/Nivethan26/farmers-gate-backend/internal/products"
	"github.com/Nivethan26/farmers-gate-backend/internal/users"
	"github.com/Nivethan26/farmers-gate-backend/pkg/auth/session"
	"github.com/Nivethan26/farmers-gate-backend/pkg/config"
	"github.com/Nivethan26/farmers-gate-backend/pkg/logger"
	"github.com/Nivethan26/farmers-gate-backend/pkg/metrics"
	"github.com/Nivethan26/farmers-gate-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	sessions sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	passwordResetService auth.PasswordResetService,
	usersService users.Service,
	productService products.Service,
	cartService cart.Service,
	ordersService orders.Service,
	negotiationsService negotiations.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisClient,
		}))
	})

	if httpMetrics != nil {
		r.Handle("/metrics", httpMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(registerService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
		r.Post("/refresh", controllers.Refresh(authService, logg))
		r.Post("/forgot-password", controllers.ForgotPassword(passwordResetService, logg))
		r.Post("/reset-password", controllers.ResetPassword(passwordResetService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/logout", controllers.Logout(authService, logg))
			r.Get("/profile", controllers.Profile(usersService, logg))
			r.Put("/profile", controllers.UpdateProfile(usersService, logg))
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		// Catalog reads are public.
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Get("/seller/{sellerId}", controllers.SellerProducts(productService, logg))
		r.Get("/{productId}", controllers.GetProduct(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Get("/myproducts", controllers.MyProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, usersService, logg))
			r.Put("/{productId}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(productService, logg))
		})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Post("/quote", controllers.QuoteCart(cartService, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Post("/", controllers.CreateOrder(ordersService, usersService, logg))
		r.Get("/myorders", controllers.MyOrders(ordersService, logg))
		r.Get("/seller", controllers.SellerOrders(ordersService, logg))
		r.Get("/{orderId}", controllers.GetOrder(ordersService, logg))
		r.Put("/{orderId}/status", controllers.UpdateOrderStatus(ordersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Get("/", controllers.ListOrders(ordersService, logg))
			r.Get("/stats", controllers.OrderStats(ordersService, logg))
		})
	})

	r.Route("/api/v1/negotiations", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Post("/", controllers.OpenNegotiation(negotiationsService, usersService, logg))
		r.Get("/my", controllers.BuyerNegotiations(negotiationsService, logg))
		r.Get("/seller", controllers.SellerNegotiations(negotiationsService, logg))
		r.Get("/{negotiationId}", controllers.GetNegotiation(negotiationsService, logg))
		r.Put("/{negotiationId}", controllers.SellerNegotiationAction(negotiationsService, logg))
		r.Post("/{negotiationId}/accept-counter", controllers.AcceptCounter(negotiationsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Get("/", controllers.ListNegotiations(negotiationsService, logg))
			r.Get("/stats", controllers.NegotiationStats(negotiationsService, logg))
		})
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Get("/", controllers.ListUsers(usersService, logg))
		r.Get("/stats", controllers.UserStats(usersService, logg))
		r.Get("/{userId}", controllers.GetUser(usersService, logg))
		r.Put("/{userId}", controllers.UpdateUser(usersService, logg))
		r.Delete("/{userId}", controllers.DeleteUser(usersService, logg))
	})

	return r
}
