package tables

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/appetiteclub/pos/internal/kv"
	"github.com/appetiteclub/pos/pkg"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
)

const tableEventSource = "pos-tables"

const (
	reasonOrderPlaced = "order.placed"
	reasonOrderClosed = "order.closed"
)

// Coordinator keeps table occupancy in step with dine-in orders.
type Coordinator struct {
	tables    *kv.Collection[Table]
	publisher events.Publisher
	logger    aqm.Logger
	now       func() time.Time
}

func NewCoordinator(store kv.Store, publisher events.Publisher, logger aqm.Logger) *Coordinator {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Coordinator{
		tables:    kv.NewCollection[Table](store, kv.Tables),
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Occupy binds orderID to the table. An unknown number mutates nothing and
// reports Found=false. A table held by another order is reassigned and the
// displaced order is reported in PreviousOrderID. Nothing is published; pass
// the outcome to Announce once the caller is done.
func (c *Coordinator) Occupy(ctx context.Context, number, orderID string) (Outcome, error) {
	var out Outcome

	err := c.tables.Mutate(ctx, func(tables []Table) ([]Table, error) {
		out = Outcome{OrderID: orderID, Reason: reasonOrderPlaced}
		i := indexOf(tables, number)
		if i < 0 {
			return nil, kv.ErrNoChange
		}

		t := &tables[i]
		out.Found = true
		out.PreviousStatus = t.Status
		out.PreviousOrderID = t.CurrentOrderID

		if t.Status == StatusOccupied && t.CurrentOrderID == orderID {
			out.Table = *t
			return nil, kv.ErrNoChange
		}

		t.occupy(orderID, c.now())
		out.Changed = true
		out.Table = *t
		return tables, nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// Release frees the table only while it is still bound to orderID.
func (c *Coordinator) Release(ctx context.Context, number, orderID string) (Outcome, error) {
	var out Outcome

	err := c.tables.Mutate(ctx, func(tables []Table) ([]Table, error) {
		out = Outcome{OrderID: orderID, Reason: reasonOrderClosed}
		i := indexOf(tables, number)
		if i < 0 {
			return nil, kv.ErrNoChange
		}

		t := &tables[i]
		out.Found = true
		out.PreviousStatus = t.Status
		out.PreviousOrderID = t.CurrentOrderID
		out.Table = *t

		if t.CurrentOrderID != orderID {
			return nil, kv.ErrNoChange
		}

		t.release(c.now())
		out.Changed = true
		out.Table = *t
		return tables, nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if !out.Changed && out.Found {
		c.logger.Debug("table release skipped", "table_number", number, "order_id", orderID, "current_order_id", out.PreviousOrderID)
	}
	return out, nil
}

func (c *Coordinator) List(ctx context.Context) ([]Table, error) {
	return c.tables.Load(ctx)
}

func (c *Coordinator) Get(ctx context.Context, number string) (*Table, error) {
	tables, err := c.tables.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(tables, number)
	if i < 0 {
		return nil, apperr.NotFound("table %s", number)
	}
	t := tables[i]
	return &t, nil
}

func (c *Coordinator) Create(ctx context.Context, req TableCreateRequest) (*Table, error) {
	if errs := ValidateTableCreate(ctx, req); len(errs) > 0 {
		return nil, apperr.Validation("%s", strings.Join(errs, "; "))
	}

	table := NewTable(strings.TrimSpace(req.Number), req.Capacity)
	table.UpdatedAt = c.now()

	err := c.tables.Mutate(ctx, func(tables []Table) ([]Table, error) {
		if indexOf(tables, table.Number) >= 0 {
			return nil, apperr.Validation("table %s already exists", table.Number)
		}
		return append(tables, table), nil
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// Announce publishes the status change an Occupy or Release produced.
// Unchanged outcomes publish nothing.
func (c *Coordinator) Announce(ctx context.Context, out Outcome) {
	if c.publisher == nil || !out.Changed {
		return
	}

	event := pkg.TableStatusEvent{
		EventType:      pkg.EventTableStatusChanged,
		TableID:        out.Table.ID,
		TableNumber:    out.Table.Number,
		OrderID:        out.OrderID,
		Status:         out.Table.Status,
		PreviousStatus: out.PreviousStatus,
		Reason:         out.Reason,
		Source:         tableEventSource,
		OccurredAt:     c.now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("cannot marshal table status event", "error", err, "table_number", out.Table.Number)
		return
	}

	if err := c.publisher.Publish(ctx, pkg.TableStatusTopic, payload); err != nil {
		c.logger.Error("cannot publish table status event", "error", err, "table_number", out.Table.Number)
	}
}

func indexOf(tables []Table, number string) int {
	for i := range tables {
		if tables[i].Number == number {
			return i
		}
	}
	return -1
}
