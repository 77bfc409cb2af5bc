package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Cart     *CartHandler
	Wishlist *WishlistHandler
	Checkout *CheckoutHandler
	Products *ProductHandler
	// Metrics is mounted at /metrics when set.
	Metrics            http.Handler
	MaxRequestBodySize int64
	Logger             *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}
	r.Use(BuyerMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Cart.GetCart)
			r.Group(func(r chi.Router) {
				r.Use(cfg.Cart.RequireIdleCheckout)
				r.Delete("/", cfg.Cart.ClearCart)
				r.Post("/items", cfg.Cart.AddItem)
				r.Put("/items/{productID}", cfg.Cart.UpdateQuantity)
				r.Delete("/items/{productID}", cfg.Cart.RemoveItem)
			})
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", cfg.Wishlist.GetWishlist)
			r.Post("/toggle", cfg.Wishlist.Toggle)
			r.Delete("/{productID}", cfg.Wishlist.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", cfg.Checkout.GetCheckout)
			r.Post("/", cfg.Checkout.InitiateCheckout)
			r.Post("/capture", cfg.Checkout.Capture)
			r.Post("/dismiss", cfg.Checkout.Dismiss)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.Get)
			r.Get("/{slug}", cfg.Products.GetBySlug)
		})
	})

	return r
}
