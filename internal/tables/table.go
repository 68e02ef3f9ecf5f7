package tables

import (
	"time"

	"github.com/aquamarinepk/aqm"
)

const (
	StatusAvailable = "available"
	StatusOccupied  = "occupied"
	StatusReserved  = "reserved"
)

const DefaultCapacity = 4

type Table struct {
	ID             string    `json:"id"`
	Number         string    `json:"number"`
	Capacity       int       `json:"capacity"`
	Status         string    `json:"status"`
	CurrentOrderID string    `json:"currentOrderId,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

func NewTable(number string, capacity int) Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Table{
		ID:       aqm.GenerateNewID().String(),
		Number:   number,
		Capacity: capacity,
		Status:   StatusAvailable,
	}
}

func (t *Table) occupy(orderID string, now time.Time) {
	t.Status = StatusOccupied
	t.CurrentOrderID = orderID
	t.UpdatedAt = now
}

func (t *Table) release(now time.Time) {
	t.Status = StatusAvailable
	t.CurrentOrderID = ""
	t.UpdatedAt = now
}

// Outcome reports what an Occupy or Release call did to a table. OrderID and
// Reason describe the change for Announce.
type Outcome struct {
	Found           bool
	Changed         bool
	Table           Table
	PreviousStatus  string
	PreviousOrderID string
	OrderID         string
	Reason          string
}

// Displaced reports whether an occupy took the table away from another order.
func (o Outcome) Displaced(orderID string) bool {
	return o.PreviousOrderID != "" && o.PreviousOrderID != orderID
}
