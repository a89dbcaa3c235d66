package httpx

import (
	"net/http"

	"github.com/ariefcatur/feelitbuy/internal/profiles"
	"github.com/ariefcatur/feelitbuy/internal/realtime"
	"github.com/ariefcatur/feelitbuy/internal/session"
)

type sessionResp struct {
	session.Identity
	IsAdmin bool `json:"is_admin"`
}

func (a *API) currentSession(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	admin, err := a.Admin.IsAdmin(r.Context(), id.UserID)
	a.ok(w, r, sessionResp{Identity: id, IsAdmin: admin}, err)
}

func (a *API) signOut(w http.ResponseWriter, r *http.Request) {
	if err := a.Auth.SignOut(r.Context(), identity(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := a.Profiles.Get(r.Context(), identity(r).UserID)
	a.ok(w, r, p, err)
}

func (a *API) saveProfile(w http.ResponseWriter, r *http.Request) {
	var u profiles.Update
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.Profiles.Save(r.Context(), identity(r).UserID, u)
	a.ok(w, r, p, err)
}

// orderFeed subscribes the caller to changes of their own orders. Admins
// may pass scope=all to watch every order, optionally narrowed with
// filter=column=eq.value.
func (a *API) orderFeed(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	f := realtime.Filter{Table: "orders", Column: "user_id", Value: id.UserID}
	if r.URL.Query().Get("scope") == "all" {
		admin, err := a.Admin.IsAdmin(r.Context(), id.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !admin {
			writeError(w, r, errForbidden)
			return
		}
		f, err = realtime.ParseFilter("orders", r.URL.Query().Get("filter"))
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	a.Feed.Serve(w, r, f)
}
