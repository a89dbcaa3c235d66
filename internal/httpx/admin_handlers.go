package httpx

import (
	"net/http"
)

type orderUpdateReq struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
}

type activeResp struct {
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
}

func (a *API) adminStats(w http.ResponseWriter, r *http.Request) {
	s, err := a.Admin.Stats(r.Context())
	a.ok(w, r, s, err)
}

func (a *API) adminSalesTrend(w http.ResponseWriter, r *http.Request) {
	b, err := a.Admin.SalesTrend(r.Context())
	a.ok(w, r, b, err)
}

func (a *API) adminOrders(w http.ResponseWriter, r *http.Request) {
	list, err := a.Admin.Orders(r.Context())
	a.ok(w, r, list, err)
}

func (a *API) adminUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req orderUpdateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := a.Admin.UpdateOrder(r.Context(), id, req.Status, req.TrackingNumber)
	a.ok(w, r, o, err)
}

func (a *API) adminProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := a.Admin.Products(r.Context())
	a.ok(w, r, ps, err)
}

func (a *API) adminToggleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	active, err := a.Admin.ToggleProduct(r.Context(), id)
	a.ok(w, r, activeResp{ID: id, IsActive: active}, err)
}

func (a *API) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.Admin.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) adminUsers(w http.ResponseWriter, r *http.Request) {
	us, err := a.Admin.Users(r.Context())
	a.ok(w, r, us, err)
}
