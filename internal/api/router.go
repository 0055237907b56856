package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pizza-storefront/internal/api/handlers"
	"pizza-storefront/internal/api/middleware"
	"pizza-storefront/internal/repository"
	"pizza-storefront/internal/service"
)

// Deps carries everything the router needs to build its handlers.
type Deps struct {
	Products *repository.ProductRepo
	Sessions middleware.SessionResolver
	Accounts *service.AccountService
	Cart     *service.CartService
	Orders   *service.OrderService
	Coupons  *service.CouponService
	Log      *zap.Logger
}

// NewRouter builds the HTTP router for the storefront API.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	authHandler := handlers.NewAuthHandler(d.Accounts, d.Log)
	userHandler := handlers.NewUserHandler(d.Accounts, d.Log)
	productHandler := handlers.NewProductHandler(d.Products, d.Log)
	cartHandler := handlers.NewCartHandler(d.Cart, d.Log)
	orderHandler := handlers.NewOrderHandler(d.Orders, d.Log)
	couponHandler := handlers.NewCouponHandler(d.Coupons, d.Log)

	protect := middleware.Protect(d.Sessions)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(protect).Post("/logout", authHandler.Logout)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/category/{category}", productHandler.ByCategory)
			r.Get("/{productID}", productHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Post("/", productHandler.Create)
				r.Put("/{productID}", productHandler.Update)
				r.Delete("/{productID}", productHandler.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(protect)
			r.Get("/", cartHandler.Get)
			r.Post("/add", cartHandler.Add)
			r.Put("/update/{itemID}", cartHandler.UpdateItem)
			r.Delete("/remove/{itemID}", cartHandler.RemoveItem)
			r.Delete("/clear", cartHandler.Clear)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(protect)
			r.Post("/", orderHandler.Create)
			r.Get("/", orderHandler.ListMine)
			r.Get("/admin/all", orderHandler.ListAll)
			r.Get("/track/{orderNumber}", orderHandler.Track)
			r.Get("/{orderID}", orderHandler.Get)
			r.Put("/{orderID}/status", orderHandler.UpdateStatus)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", couponHandler.ListActive)
			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Post("/validate", couponHandler.Validate)
				r.Post("/", couponHandler.Create)
				r.Put("/{couponID}", couponHandler.Update)
				r.Delete("/{couponID}", couponHandler.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(protect)
			r.Get("/profile", userHandler.Profile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Post("/address", userHandler.AddAddress)
			r.Put("/address/{addressID}", userHandler.UpdateAddress)
			r.Delete("/address/{addressID}", userHandler.DeleteAddress)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
