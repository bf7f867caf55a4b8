package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lockwise/lockshop-backend/api/controllers"
	"github.com/lockwise/lockshop-backend/api/middleware"
	"github.com/lockwise/lockshop-backend/internal/auth"
	cartsvc "github.com/lockwise/lockshop-backend/internal/cart"
	contactsvc "github.com/lockwise/lockshop-backend/internal/contact"
	jobsvc "github.com/lockwise/lockshop-backend/internal/jobs"
	ordersvc "github.com/lockwise/lockshop-backend/internal/orders"
	productsvc "github.com/lockwise/lockshop-backend/internal/products"
	"github.com/lockwise/lockshop-backend/pkg/config"
	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/logger"
	pkgredis "github.com/lockwise/lockshop-backend/pkg/redis"
)

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *pkgredis.Client,
	users userFinder,
	authService auth.Service,
	productService productsvc.Service,
	cartService cartsvc.Service,
	orderService ordersvc.Service,
	jobService jobsvc.Service,
	contactService contactsvc.Service,
	readyChecks ...controllers.DependencyCheck,
) http.Handler {
	r := chi.NewRouter()

	// a nil client must stay a nil interface
	var idempotencyStore pkgredis.IdempotencyStore
	var rateStore middleware.RateLimiterStore
	if redisClient != nil {
		idempotencyStore = redisClient
		rateStore = redisClient
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyChecks...))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor(cfg.JWT, users, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).
				Post("/login", controllers.AuthLogin(authService, cfg.JWT, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).
				Post("/register", controllers.AuthRegister(authService, cfg.JWT, logg))
			r.Post("/logout", controllers.AuthLogout(cfg.JWT))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, false, logg))
			r.Get("/{slug}", controllers.GetProductBySlug(productService, logg))
		})

		r.Post("/contact", controllers.CreateContactMessage(contactService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireActor(logg))
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Delete("/", controllers.ClearCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Patch("/items/{productID}", controllers.UpdateCartItem(cartService, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(cartService, logg))
		})

		r.With(middleware.RequireActor(logg)).
			Post("/orders", controllers.Checkout(orderService, logg))
		r.Get("/orders/{orderNumber}", controllers.GetOrderByNumber(orderService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Post("/jobs", controllers.CreateJob(jobService, logg))
			r.Delete("/jobs/{jobID}", controllers.DeleteJob(jobService, logg))
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff(logg))
			r.Get("/jobs", controllers.ListJobs(jobService, logg))
			r.Get("/jobs/{jobID}", controllers.GetJob(jobService, logg))
			r.Patch("/jobs/{jobID}", controllers.UpdateJob(jobService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/products", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Get("/", controllers.ListProducts(productService, true, logg))
				r.Post("/", controllers.AdminCreateProduct(productService, logg))
				r.Get("/{productID}", controllers.AdminGetProduct(productService, logg))
				r.Patch("/{productID}", controllers.AdminUpdateProduct(productService, logg))
				r.Delete("/{productID}", controllers.AdminDeleteProduct(productService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Use(middleware.RequireAdminOrManager(logg))
				r.Get("/", controllers.AdminListOrders(orderService, logg))
				r.Get("/{orderID}", controllers.AdminGetOrder(orderService, logg))
				r.Patch("/{orderID}/status", controllers.AdminUpdateOrderStatus(orderService, logg))
			})

			r.Route("/contact", func(r chi.Router) {
				r.Use(middleware.RequireAdminOrManager(logg))
				r.Get("/", controllers.AdminListContactMessages(contactService, logg))
				r.Post("/{messageID}/read", controllers.AdminMarkContactMessageRead(contactService, logg))
				r.Delete("/{messageID}", controllers.AdminDeleteContactMessage(contactService, logg))
			})
		})
	})

	return r
}
