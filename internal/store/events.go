package store

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderUpdated       = "OrderUpdated"
	EventOrderDeleted       = "OrderDeleted"
	EventOrderDetailDeleted = "OrderDetailDeleted"
	EventStockSet           = "StockSet"
)

// Envelope wraps every published event. Events are emitted after the
// enclosing transaction commits and carry no transactional weight.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderEventPayload struct {
	OrderID string          `json:"order_id"`
	Details []OrderDetail   `json:"details,omitempty"`
	Total   decimal.Decimal `json:"total"`
}

type DetailDeletedPayload struct {
	OrderID   string `json:"order_id"`
	DetailID  string `json:"detail_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type StockSetPayload struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}
