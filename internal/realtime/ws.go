package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Server upgrades HTTP requests into change-feed websockets.
type Server struct {
	Hub      *Hub
	Upgrader websocket.Upgrader
	Log      zerolog.Logger
}

// NewServer builds a Server whose handshake accepts the listed browser
// origins, the same list the HTTP API allows.
func NewServer(hub *Hub, allowedOrigins []string, log zerolog.Logger) *Server {
	return &Server{
		Hub:      hub,
		Upgrader: websocket.Upgrader{CheckOrigin: OriginAllowed(allowedOrigins)},
		Log:      log,
	}
}

// OriginAllowed matches the Origin header against allowed. Entries are
// exact origins, "*" or a single-wildcard pattern like "https://*.example.com".
// Requests without an Origin header come from non-browser clients and pass.
func OriginAllowed(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := strings.ToLower(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			a = strings.ToLower(a)
			if a == "*" || a == origin {
				return true
			}
			if pre, suf, ok := strings.Cut(a, "*"); ok &&
				len(origin) >= len(pre)+len(suf) &&
				strings.HasPrefix(origin, pre) && strings.HasSuffix(origin, suf) {
				return true
			}
		}
		return false
	}
}

// Serve upgrades the request and streams changes matching f until either
// side goes away. Clients never send data; reads only service control frames.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, f Filter) {
	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.Log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := s.Hub.Subscribe(f)
	defer s.Hub.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case c, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "resubscribe"))
				return
			}
			if err := conn.WriteJSON(c); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
