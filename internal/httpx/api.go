package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/feelitbuy/internal/admin"
	"github.com/ariefcatur/feelitbuy/internal/cart"
	"github.com/ariefcatur/feelitbuy/internal/catalog"
	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/ariefcatur/feelitbuy/internal/profiles"
	"github.com/ariefcatur/feelitbuy/internal/realtime"
	"github.com/ariefcatur/feelitbuy/internal/wishlist"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type CatalogService interface {
	Categories(ctx context.Context) ([]catalog.Category, error)
	Products(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
	Detail(ctx context.Context, slug string) (catalog.Detail, error)
}

type CartService interface {
	Add(ctx context.Context, userID, productID string) (cart.Item, error)
	Increment(ctx context.Context, userID, itemID string) (int, error)
	Decrement(ctx context.Context, userID, itemID string) (int, error)
	SetQuantity(ctx context.Context, userID, itemID string, q int) error
	Remove(ctx context.Context, userID, itemID string) error
	Summary(ctx context.Context, userID string) (cart.Summary, error)
	Count(ctx context.Context, userID string) (int, error)
}

type WishlistService interface {
	Toggle(ctx context.Context, userID, productID string) (bool, error)
	Contains(ctx context.Context, userID, productID string) (bool, error)
	List(ctx context.Context, userID string) ([]wishlist.Item, error)
	Count(ctx context.Context, userID string) (int, error)
}

type OrderService interface {
	Checkout(ctx context.Context, userID string, in orders.CheckoutInput) (orders.Order, error)
	MyOrders(ctx context.Context, userID string) ([]orders.Order, error)
	Get(ctx context.Context, userID, orderID string) (orders.Order, error)
}

type AdminService interface {
	RoleChecker
	Stats(ctx context.Context) (admin.Stats, error)
	SalesTrend(ctx context.Context) ([]admin.DayBucket, error)
	Orders(ctx context.Context) ([]admin.OrderRow, error)
	Users(ctx context.Context) ([]admin.User, error)
	UpdateOrder(ctx context.Context, orderID, status, tracking string) (orders.Order, error)
	Products(ctx context.Context) ([]catalog.Product, error)
	ToggleProduct(ctx context.Context, id string) (bool, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ProfileStore interface {
	Get(ctx context.Context, userID string) (profiles.Profile, error)
	Save(ctx context.Context, userID string, u profiles.Update) (profiles.Profile, error)
}

// API holds every storefront and admin handler.
type API struct {
	Auth     Authenticator
	Catalog  CatalogService
	Cart     CartService
	Wishlist WishlistService
	Orders   OrderService
	Admin    AdminService
	Profiles ProfileStore
	Feed     *realtime.Server

	// InvoiceLocation is the zone invoice dates are printed in.
	InvoiceLocation *time.Location
	// Timeout bounds every non-streaming request.
	Timeout time.Duration
}

func (a *API) Register(r chi.Router) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(timeout))

			r.Get("/categories", a.listCategories)
			r.Get("/products", a.listProducts)
			r.Get("/products/{slug}", a.productDetail)

			r.Group(func(r chi.Router) {
				r.Use(RequireUser(a.Auth))

				r.Get("/auth/session", a.currentSession)
				r.Post("/auth/signout", a.signOut)

				r.Get("/cart", a.getCart)
				r.Get("/cart/count", a.cartCount)
				r.Post("/cart/items", a.addToCart)
				r.Patch("/cart/items/{id}", a.setCartQuantity)
				r.Post("/cart/items/{id}/increment", a.incrementCartItem)
				r.Post("/cart/items/{id}/decrement", a.decrementCartItem)
				r.Delete("/cart/items/{id}", a.removeCartItem)

				r.Get("/wishlist", a.listWishlist)
				r.Get("/wishlist/count", a.wishlistCount)
				r.Post("/wishlist/toggle", a.toggleWishlist)
				r.Get("/wishlist/{productID}", a.wishlistContains)

				r.Post("/checkout", a.checkout)
				r.Get("/orders", a.listMyOrders)
				r.Get("/orders/{id}", a.getMyOrder)
				r.Get("/orders/{id}/invoice.pdf", a.downloadInvoice)

				r.Get("/profile", a.getProfile)
				r.Put("/profile", a.saveProfile)

				r.Route("/admin", func(r chi.Router) {
					r.Use(RequireAdmin(a.Admin))
					r.Get("/stats", a.adminStats)
					r.Get("/sales-trend", a.adminSalesTrend)
					r.Get("/orders", a.adminOrders)
					r.Patch("/orders/{id}", a.adminUpdateOrder)
					r.Get("/products", a.adminProducts)
					r.Post("/products/{id}/toggle-active", a.adminToggleProduct)
					r.Delete("/products/{id}", a.adminDeleteProduct)
					r.Get("/users", a.adminUsers)
				})
			})
		})

		// long-lived: no request timeout
		r.With(RequireUser(a.Auth)).Get("/realtime/orders", a.orderFeed)
	})
}

func (a *API) ok(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
