package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/api/handlers"
	"github.com/Cheertaboi/farmfresh-storefront/internal/api/middleware"
	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
)

// Services are the application services the router exposes.
type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Checkout *service.CheckoutService
	Auth     *service.AuthService
	Accounts *service.AccountService
}

type Options struct {
	// SecureCookies marks the sign-in cookie Secure.
	SecureCookies bool
}

// NewRouter builds the HTTP router for the storefront
func NewRouter(svc Services, log *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Identify(svc.Auth, log))

	products := handlers.NewProductHandler(svc.Catalog, log)
	cart := handlers.NewCartHandler(svc.Cart, log)
	checkout := handlers.NewCheckoutHandler(svc.Checkout, log)
	auth := handlers.NewAuthHandler(svc.Auth, opts.SecureCookies, log)
	account := handlers.NewAccountHandler(svc.Accounts, log)

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/auth/login", auth.Login)
	r.Get("/products", products.List)

	// Signed-in shopper endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Post("/auth/logout", auth.Logout)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.View)
			r.Get("/count", cart.Count)
			r.Post("/items", cart.Add)
			r.Put("/items/{productID}", cart.SetQuantity)
			r.Delete("/items/{productID}", cart.Remove)
		})

		r.Get("/checkout", checkout.Preview)
		r.Post("/checkout", checkout.Place)

		r.Route("/account", func(r chi.Router) {
			r.Get("/", account.Profile)
			r.Patch("/", account.Update)
			r.Get("/orders", account.Orders)
		})
	})

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/products", products.List)
		r.Post("/products", products.Create)
		r.Put("/products/{id}", products.Update)
		r.Delete("/products/{id}", products.Delete)
	})

	return r
}
