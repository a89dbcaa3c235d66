package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ariefcatur/feelitbuy/internal/catalog"
	"github.com/go-chi/chi/v5"
)

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := a.Catalog.Categories(r.Context())
	a.ok(w, r, cs, err)
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	featured, _ := strconv.ParseBool(q.Get("featured"))
	ps, err := a.Catalog.Products(r.Context(), catalog.Filter{
		FeaturedOnly: featured,
		CategorySlug: q.Get("category"),
		Search:       q.Get("q"),
	})
	a.ok(w, r, ps, err)
}

func (a *API) productDetail(w http.ResponseWriter, r *http.Request) {
	d, err := a.Catalog.Detail(r.Context(), chi.URLParam(r, "slug"))
	a.ok(w, r, d, err)
}

type productRef struct {
	ProductID string `json:"product_id"`
}

func (ref productRef) id() (string, error) {
	return parseUUID(ref.ProductID)
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

type quantityResp struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type countResp struct {
	Count int `json:"count"`
}

func (a *API) getCart(w http.ResponseWriter, r *http.Request) {
	s, err := a.Cart.Summary(r.Context(), identity(r).UserID)
	a.ok(w, r, s, err)
}

func (a *API) cartCount(w http.ResponseWriter, r *http.Request) {
	n, err := a.Cart.Count(r.Context(), identity(r).UserID)
	a.ok(w, r, countResp{Count: n}, err)
}

func (a *API) addToCart(w http.ResponseWriter, r *http.Request) {
	var req productRef
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pid, err := req.id()
	if err != nil {
		writeError(w, r, err)
		return
	}
	it, err := a.Cart.Add(r.Context(), identity(r).UserID, pid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (a *API) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req quantityReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err = a.Cart.SetQuantity(r.Context(), identity(r).UserID, id, req.Quantity)
	a.ok(w, r, quantityResp{ID: id, Quantity: req.Quantity}, err)
}

func (a *API) incrementCartItem(w http.ResponseWriter, r *http.Request) {
	a.stepCartItem(w, r, a.Cart.Increment)
}

func (a *API) decrementCartItem(w http.ResponseWriter, r *http.Request) {
	a.stepCartItem(w, r, a.Cart.Decrement)
}

func (a *API) stepCartItem(w http.ResponseWriter, r *http.Request, step func(context.Context, string, string) (int, error)) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := step(r.Context(), identity(r).UserID, id)
	a.ok(w, r, quantityResp{ID: id, Quantity: q}, err)
}

func (a *API) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.Cart.Remove(r.Context(), identity(r).UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type savedResp struct {
	ProductID string `json:"product_id"`
	Saved     bool   `json:"saved"`
}

func (a *API) listWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := a.Wishlist.List(r.Context(), identity(r).UserID)
	a.ok(w, r, items, err)
}

func (a *API) wishlistCount(w http.ResponseWriter, r *http.Request) {
	n, err := a.Wishlist.Count(r.Context(), identity(r).UserID)
	a.ok(w, r, countResp{Count: n}, err)
}

func (a *API) wishlistContains(w http.ResponseWriter, r *http.Request) {
	pid, err := uuidParam(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := a.Wishlist.Contains(r.Context(), identity(r).UserID, pid)
	a.ok(w, r, savedResp{ProductID: pid, Saved: saved}, err)
}

func (a *API) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	var req productRef
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pid, err := req.id()
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := a.Wishlist.Toggle(r.Context(), identity(r).UserID, pid)
	a.ok(w, r, savedResp{ProductID: pid, Saved: saved}, err)
}
