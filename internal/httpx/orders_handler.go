package httpx

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/feelitbuy/internal/invoice"
	"github.com/ariefcatur/feelitbuy/internal/orders"
)

func (a *API) checkout(w http.ResponseWriter, r *http.Request) {
	var in orders.CheckoutInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := a.Orders.Checkout(ctx, identity(r).UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (a *API) listMyOrders(w http.ResponseWriter, r *http.Request) {
	list, err := a.Orders.MyOrders(r.Context(), identity(r).UserID)
	a.ok(w, r, list, err)
}

func (a *API) getMyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := a.Orders.Get(r.Context(), identity(r).UserID, id)
	a.ok(w, r, o, err)
}

func (a *API) downloadInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := a.Orders.Get(r.Context(), identity(r).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc := invoice.Build(o, a.InvoiceLocation)
	var buf bytes.Buffer
	if err := invoice.Render(&buf, doc); err != nil {
		writeError(w, r, fmt.Errorf("render invoice %s: %w", id, err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
