// Package realtime pushes row-change notifications for the orders table to
// websocket subscribers. Notifications only tell clients to refetch.
package realtime

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Change is one notification as sent to clients.
type Change struct {
	Table   string `json:"table"`
	Event   string `json:"event"` // INSERT | UPDATE
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Status  string `json:"status,omitempty"`
}

func (c Change) column(name string) (string, bool) {
	switch name {
	case "id", "order_id":
		return c.OrderID, true
	case "user_id":
		return c.UserID, true
	case "status":
		return c.Status, true
	}
	return "", false
}

// Filter selects changes of one table, optionally narrowed to rows whose
// Column equals Value. The zero Column matches every row.
type Filter struct {
	Table  string
	Column string
	Value  string
}

var ErrBadFilter = errors.New("unsupported filter")

// ParseFilter reads the "column=eq.value" form.
func ParseFilter(table, expr string) (Filter, error) {
	f := Filter{Table: table}
	if expr == "" {
		return f, nil
	}
	col, rest, ok := strings.Cut(expr, "=")
	if !ok {
		return Filter{}, fmt.Errorf("%w: %q", ErrBadFilter, expr)
	}
	val, ok := strings.CutPrefix(rest, "eq.")
	if !ok || col == "" || val == "" {
		return Filter{}, fmt.Errorf("%w: %q", ErrBadFilter, expr)
	}
	if _, known := (Change{}).column(col); !known {
		return Filter{}, fmt.Errorf("%w: column %q", ErrBadFilter, col)
	}
	f.Column, f.Value = col, val
	return f, nil
}

func (f Filter) Match(c Change) bool {
	if f.Table != c.Table {
		return false
	}
	if f.Column == "" {
		return true
	}
	v, _ := c.column(f.Column)
	return v == f.Value
}

type Subscription struct {
	C      <-chan Change
	ch     chan Change
	filter Filter
	once   sync.Once
}

func (s *Subscription) close() { s.once.Do(func() { close(s.ch) }) }

// Hub fans changes out to subscribers. A subscriber whose buffer is full
// is dropped; its channel is closed so the connection ends and the client
// resubscribes.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
	buf  int
	log  zerolog.Logger
}

func NewHub(buf int, log zerolog.Logger) *Hub {
	if buf <= 0 {
		buf = 16
	}
	return &Hub{subs: map[*Subscription]struct{}{}, buf: buf, log: log}
}

func (h *Hub) Subscribe(f Filter) *Subscription {
	ch := make(chan Change, h.buf)
	s := &Subscription{C: ch, ch: ch, filter: f}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
	s.close()
}

// Publish delivers c to every matching subscriber and reports how many got it.
func (h *Hub) Publish(c Change) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for s := range h.subs {
		if !s.filter.Match(c) {
			continue
		}
		select {
		case s.ch <- c:
			n++
		default:
			delete(h.subs, s)
			s.close()
			h.log.Warn().Str("order_id", c.OrderID).Msg("slow subscriber dropped")
		}
	}
	return n
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		delete(h.subs, s)
		s.close()
	}
}
