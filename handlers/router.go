package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hamropustak/pasal/middleware"
	"github.com/hamropustak/pasal/models"
)

// API holds every handler group mounted by NewRouter.
type API struct {
	JWTSecret   string
	CORSOrigins []string
	TrackLimit  *middleware.IPLimiter
	Roles       middleware.ProfileLookup // stored roles for /admin routes

	Auth     *AuthHandler
	Books    *BooksHandler
	Covers   *CoversHandler
	Cart     *CartHandler
	Orders   *OrdersHandler
	Profiles *ProfilesHandler
	Reviews  *ReviewsHandler
	Settings *SettingsHandler
}

func NewRouter(api *API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS(api.CORSOrigins...))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	auth := middleware.Auth(api.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", api.Auth.Login)
		r.Post("/auth/register", api.Auth.Register)

		r.Get("/books", api.Books.List)
		r.Get("/books/facets", api.Books.Facets)
		r.Get("/books/{id}", api.Books.Get)
		r.Get("/books/{id}/reviews", api.Reviews.List)
		r.Get("/settings/{key}", api.Settings.Get)

		r.Group(func(r chi.Router) {
			if api.TrackLimit != nil {
				r.Use(api.TrackLimit.Handler)
			}
			r.Get("/orders/track/{trackingNumber}", api.Orders.Track)
		})
		r.With(middleware.OptionalAuth(api.JWTSecret)).Post("/orders", api.Orders.Place)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/profile", api.Profiles.Get)
			r.Put("/profile", api.Profiles.Update)

			r.Get("/cart", api.Cart.Get)
			r.Post("/cart/items", api.Cart.AddItem)
			r.Patch("/cart/items/{bookId}/{format}", api.Cart.UpdateItem)
			r.Delete("/cart/items/{bookId}/{format}", api.Cart.RemoveItem)
			r.Delete("/cart", api.Cart.Clear)

			r.Get("/wishlist", api.Cart.GetWishlist)
			r.Post("/wishlist/{bookId}", api.Cart.ToggleWishlist)
			r.Delete("/wishlist/{bookId}", api.Cart.RemoveFromWishlist)

			r.Post("/orders/checkout", api.Orders.Checkout)
			r.Get("/orders/mine", api.Orders.Mine)
			r.Post("/orders/{id}/cancel", api.Orders.CancelOwn)

			r.Post("/books/{id}/reviews", api.Reviews.Create)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(api.Roles, models.PermManageBooks))
				r.Post("/books", api.Books.Create)
				r.Put("/books/{id}", api.Books.Update)
				r.Delete("/books/{id}", api.Books.Delete)
				r.Get("/books/lookup/{isbn}", api.Books.Lookup)
				r.Post("/covers", api.Covers.Upload)
				r.Get("/covers", api.Covers.List)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(api.Roles, models.PermManageOrders))
				r.Get("/orders", api.Orders.AdminList)
				r.Patch("/orders/{id}/status", api.Orders.AdminUpdateStatus)
				r.Post("/orders/{id}/cancel", api.Orders.AdminCancel)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(api.Roles, models.PermManageUsers))
				r.Get("/profiles", api.Profiles.List)
				r.Patch("/profiles/{id}/role", api.Profiles.SetRole)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(api.Roles, models.PermManageContent))
				r.Put("/settings/{key}", api.Settings.Put)
				r.Get("/mail-settings", api.Settings.GetMail)
				r.Put("/mail-settings", api.Settings.SaveMail)
			})
		})
	})
	return r
}
