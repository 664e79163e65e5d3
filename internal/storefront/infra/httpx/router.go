package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jcmexdev/sabor-storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/metrics"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/httpx/middlewares"
)

type RouterOptions struct {
	CORSOrigins []string
	// Metrics may be nil. MetricsHandler is mounted at /metrics when set.
	Metrics        *metrics.ServerMetrics
	MetricsHandler http.Handler
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constants.HeaderIdempotencyKey},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}

	admin := middlewares.RequireAdmin(h.auth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Get("/verify", h.VerifyToken)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Get("/{id}", h.GetCategory)
			r.With(admin).Post("/", h.CreateCategory)
			r.With(admin).Put("/{id}", h.UpdateCategory)
			r.With(admin).Delete("/{id}", h.DeleteCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/featured/list", h.FeaturedProducts)
			r.Get("/category/{categoryId}", h.ProductsByCategory)
			r.Get("/{id}", h.GetProduct)
			r.With(admin).Post("/", h.CreateProduct)
			r.With(admin).Put("/{id}", h.UpdateProduct)
			r.With(admin).Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", h.RegisterCustomer)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/", h.ListCustomers)
				r.Get("/{id}", h.GetCustomer)
				r.Put("/{id}", h.UpdateCustomer)
				r.Delete("/{id}", h.DeleteCustomer)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middlewares.Session)
			r.Get("/", h.GetCart)
			r.Get("/total", h.CartTotal)
			r.Post("/add", h.AddToCart)
			r.Put("/update", h.UpdateCartItem)
			r.Delete("/remove/{productId}", h.RemoveFromCart)
			r.Delete("/clear", h.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middlewares.Session).Post("/", h.CreateOrder)
			r.Get("/{id}", h.GetOrder)
			r.Get("/{id}/payment-status", h.PaymentStatus)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/", h.ListOrders)
				r.Put("/{id}/status", h.UpdateOrderStatus)
				r.Get("/{id}/checkout-log", h.CheckoutLog)
			})
		})
	})
	return r
}
