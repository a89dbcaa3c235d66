package orders

import (
	"encoding/json"
	"time"
)

const EventOrderChanged = "OrderChanged"

// Change kinds carried by OrderChanged.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // EventOrderChanged
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// OrderChangedPayload names the row that changed. Consumers refetch; the
// event never carries enough to mutate state on its own.
type OrderChangedPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Change  string `json:"change"`
	Status  Status `json:"status"`
}
