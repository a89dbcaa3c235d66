package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/feelitbuy/internal/cart"
	"github.com/ariefcatur/feelitbuy/internal/catalog"
	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/ariefcatur/feelitbuy/internal/profiles"
	"github.com/ariefcatur/feelitbuy/internal/realtime"
	"github.com/ariefcatur/feelitbuy/internal/session"
	"github.com/ariefcatur/feelitbuy/internal/wishlist"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
)

const genericError = "something went wrong, please try again"

var (
	errNotFound  = errors.New("not found")
	errForbidden = errors.New("admin access required")
	errBadJSON   = errors.New("invalid json")
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// writeError maps domain errors onto status codes. Anything unrecognised
// is logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		checkoutErr *orders.ValidationError
		profileErr  *profiles.ValidationError
	)
	switch {
	case errors.Is(err, session.ErrUnauthenticated), errors.Is(err, session.ErrRevoked):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required", Redirect: "/auth"})
	case errors.Is(err, errForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.As(err, &checkoutErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: checkoutErr.Message})
	case errors.As(err, &profileErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: profileErr.Message})
	case errors.Is(err, errNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, cart.ErrNoSuchProduct),
		errors.Is(err, wishlist.ErrNoSuchProduct),
		errors.Is(err, orders.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrStockLimit),
		errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrInsufficientStock):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, errBadJSON),
		errors.Is(err, cart.ErrBadQuantity),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, realtime.ErrBadFilter):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: genericError})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadJSON
	}
	return nil
}

// uuidParam reads a path parameter that must be a uuid. Malformed ids read
// as not found so they never reach the database.
func uuidParam(r *http.Request, name string) (string, error) {
	return parseUUID(chi.URLParam(r, name))
}

func parseUUID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", errNotFound
	}
	return id.String(), nil
}
