package pkg

import "time"

const (
	// OrderStatusTopic carries order lifecycle changes.
	OrderStatusTopic = "orders.status"
	// TableStatusTopic delivers authoritative status changes for tables.
	TableStatusTopic = "tables.status"

	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status.changed"
	EventOrderPaid          = "order.paid"

	// EventTableStatusChanged identifies a table status change event payload.
	EventTableStatusChanged = "table.status.changed"
)

// OrderStatusEvent is published whenever an order is placed or changes status.
type OrderStatusEvent struct {
	EventType      string    `json:"event_type"`
	OrderID        string    `json:"order_id"`
	TableNumber    string    `json:"table_number,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	PaymentMethod  string    `json:"payment_method,omitempty"`
	Total          float64   `json:"total"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// TableStatusEvent captures a table becoming occupied or available.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	TableID        string    `json:"table_id"`
	TableNumber    string    `json:"table_number"`
	OrderID        string    `json:"order_id,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
