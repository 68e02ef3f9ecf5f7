package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/appetiteclub/pos/internal/kv"
	"github.com/appetiteclub/pos/internal/tables"
	"github.com/appetiteclub/pos/pkg"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
)

// TableCoordinator binds dine-in orders to tables.
type TableCoordinator interface {
	Occupy(ctx context.Context, number, orderID string) (tables.Outcome, error)
	Release(ctx context.Context, number, orderID string) (tables.Outcome, error)
	Announce(ctx context.Context, out tables.Outcome)
}

// Catalog resolves the title and current price of a menu item.
type Catalog interface {
	Lookup(ctx context.Context, menuItemID string) (title string, price float64, err error)
}

type EngineDeps struct {
	Store     kv.Store
	Tables    TableCoordinator
	Catalog   Catalog
	Publisher events.Publisher
	Logger    aqm.Logger
	Clock     func() time.Time
}

// Engine owns the order lifecycle. Every order and table read-modify-write
// cycle runs under mu; events are published after it is released.
type Engine struct {
	mu        sync.Mutex
	orders    *kv.Collection[Order]
	tables    TableCoordinator
	catalog   Catalog
	publisher events.Publisher
	logger    aqm.Logger
	now       func() time.Time
}

func NewEngine(deps EngineDeps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	now := deps.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{
		orders:    kv.NewCollection[Order](deps.Store, kv.Orders),
		tables:    deps.Tables,
		catalog:   deps.Catalog,
		publisher: deps.Publisher,
		logger:    logger,
		now:       now,
	}
}

func (e *Engine) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if errs := ValidatePlaceOrder(ctx, req, e.catalog != nil); len(errs) > 0 {
		return nil, apperr.Validation("%s", strings.Join(errs, "; "))
	}

	items, err := e.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	mode, _ := ParseDiningMode(req.DiningMode)
	totals := ComputeTotals(items)
	now := e.now()

	o := Order{
		ID:            aqm.GenerateNewID().String(),
		TableNumber:   strings.TrimSpace(req.TableNumber),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Items:         items,
		Status:        StatusPending,
		DiningMode:    mode,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentStatus: PaymentStatusPending,
		StaffID:       req.StaffID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result := &PlaceOrderResult{Order: &o}
	var table tables.Outcome

	err = func() error {
		e.mu.Lock()
		defer e.mu.Unlock()

		err := e.orders.Mutate(ctx, func(orders []Order) ([]Order, error) {
			return append(orders, o), nil
		})
		if err != nil {
			return err
		}

		if o.holdsTable() {
			result.Warnings, table = e.occupyTable(ctx, &o)
		}
		return nil
	}()
	if err != nil {
		return nil, err
	}

	e.logger.Info("order placed", "order_id", o.ID, "table_number", o.TableNumber, "total", o.Total)
	e.announce(ctx, table)
	e.publishStatus(ctx, pkg.EventOrderPlaced, &o, "")
	return result, nil
}

// TransitionStatus moves an order along its lifecycle. Reaching paid or
// cancelled frees a dine-in table still held by the order.
func (e *Engine) TransitionStatus(ctx context.Context, id, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, apperr.Validation("unknown status %q", status)
	}

	var (
		previous string
		table    tables.Outcome
	)

	e.mu.Lock()
	updated, err := e.mutateOrder(ctx, id, func(o *Order) error {
		if !CanTransition(o.Status, status) {
			return apperr.InvalidTransition("order %s cannot move from %s to %s", o.ID, o.Status, status)
		}
		previous = o.Status
		o.Status = status
		if status == StatusPaid {
			o.PaymentStatus = PaymentStatusPaid
		}
		o.UpdatedAt = e.now()
		return nil
	})
	if err == nil && IsTerminal(updated.Status) && updated.holdsTable() {
		table = e.releaseTable(ctx, updated)
	}
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	e.logger.Info("order status changed", "order_id", updated.ID, "from", previous, "to", updated.Status)
	e.announce(ctx, table)
	e.publishStatus(ctx, pkg.EventOrderStatusChanged, updated, previous)
	return updated, nil
}

// ProcessPayment settles an order from any non-terminal status.
func (e *Engine) ProcessPayment(ctx context.Context, id, method string) (Receipt, error) {
	paymentMethod, ok := ParsePaymentMethod(method)
	if !ok {
		return Receipt{}, apperr.Validation("unknown payment method %q", method)
	}

	var (
		previous string
		table    tables.Outcome
	)

	e.mu.Lock()
	updated, err := e.mutateOrder(ctx, id, func(o *Order) error {
		if !Payable(o.Status) {
			return apperr.InvalidTransition("order %s is already %s", o.ID, o.Status)
		}
		previous = o.Status
		o.Status = StatusPaid
		o.PaymentStatus = PaymentStatusPaid
		o.PaymentMethod = paymentMethod
		o.UpdatedAt = e.now()
		return nil
	})
	if err == nil && updated.holdsTable() {
		table = e.releaseTable(ctx, updated)
	}
	e.mu.Unlock()
	if err != nil {
		return Receipt{}, err
	}

	e.logger.Info("order paid", "order_id", updated.ID, "method", paymentMethod, "total", updated.Total)
	e.publishStatus(ctx, pkg.EventOrderPaid, updated, previous)
	return NewReceipt(updated, updated.UpdatedAt), nil
}

// ListOrders returns orders in placement order. An empty status returns all.
func (e *Engine) ListOrders(ctx context.Context, status string) ([]Order, error) {
	if status != "" && !ValidStatus(status) {
		return nil, apperr.Validation("unknown status %q", status)
	}

	orders, err := e.orders.Load(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return orders, nil
	}

	filtered := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

func (e *Engine) GetOrder(ctx context.Context, id string) (*Order, error) {
	orders, err := e.orders.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, apperr.NotFound("order %s", id)
}

func (e *Engine) KitchenQueue(ctx context.Context) (KitchenQueue, error) {
	orders, err := e.orders.Load(ctx)
	if err != nil {
		return KitchenQueue{}, err
	}

	queue := KitchenQueue{Pending: []Order{}, Preparing: []Order{}}
	for _, o := range orders {
		switch o.Status {
		case StatusPending:
			queue.Pending = append(queue.Pending, o)
		case StatusPreparing:
			queue.Preparing = append(queue.Preparing, o)
		}
	}
	return queue, nil
}

func (e *Engine) resolveItems(ctx context.Context, lines []LineRequest) ([]OrderItem, error) {
	items := make([]OrderItem, 0, len(lines))

	for i, line := range lines {
		item := OrderItem{
			MenuItemID: line.MenuItemID,
			Title:      strings.TrimSpace(line.Title),
			Quantity:   line.Quantity,
			Notes:      line.Notes,
		}
		if line.Price != nil {
			item.Price = *line.Price
		}

		if e.catalog != nil && line.MenuItemID != "" {
			title, price, err := e.catalog.Lookup(ctx, line.MenuItemID)
			switch {
			case errors.Is(err, apperr.ErrNotFound):
				return nil, apperr.Validation("menu item %s does not exist (item %d)", line.MenuItemID, i+1)
			case errors.Is(err, apperr.ErrValidation):
				return nil, fmt.Errorf("%w (item %d)", err, i+1)
			case err != nil:
				return nil, apperr.Store("lookup menu item", err)
			}
			if item.Title == "" {
				item.Title = title
			}
			if line.Price == nil {
				item.Price = price
			}
		}

		items = append(items, item)
	}

	return items, nil
}

// mutateOrder applies fn to the stored order with the given id and returns
// the updated copy.
func (e *Engine) mutateOrder(ctx context.Context, id string, fn func(o *Order) error) (*Order, error) {
	var updated Order

	err := e.orders.Mutate(ctx, func(orders []Order) ([]Order, error) {
		for i := range orders {
			if orders[i].ID != id {
				continue
			}
			if err := fn(&orders[i]); err != nil {
				return nil, err
			}
			updated = orders[i]
			return orders, nil
		}
		return nil, apperr.NotFound("order %s", id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// occupyTable binds the table and turns every inconsistency into a warning;
// the order is already stored at this point.
func (e *Engine) occupyTable(ctx context.Context, o *Order) ([]string, tables.Outcome) {
	if e.tables == nil {
		return nil, tables.Outcome{}
	}

	out, err := e.tables.Occupy(ctx, o.TableNumber, o.ID)
	var warning string
	switch {
	case err != nil:
		warning = fmt.Sprintf("table %s could not be occupied: %v", o.TableNumber, err)
		e.logger.Error("cannot occupy table", "error", err, "order_id", o.ID, "table_number", o.TableNumber)
	case !out.Found:
		warning = fmt.Sprintf("table %s not found", o.TableNumber)
	case out.Displaced(o.ID):
		warning = fmt.Sprintf("table %s was reassigned from order %s", o.TableNumber, out.PreviousOrderID)
	default:
		return nil, out
	}

	e.logger.Info("order placed with table warning", "order_id", o.ID, "warning", warning)
	return []string{warning}, out
}

func (e *Engine) releaseTable(ctx context.Context, o *Order) tables.Outcome {
	if e.tables == nil {
		return tables.Outcome{}
	}

	out, err := e.tables.Release(ctx, o.TableNumber, o.ID)
	if err != nil {
		e.logger.Error("cannot release table", "error", err, "order_id", o.ID, "table_number", o.TableNumber)
		return tables.Outcome{}
	}
	if !out.Found {
		e.logger.Info("table release skipped", "order_id", o.ID, "warning", fmt.Sprintf("table %s not found", o.TableNumber))
	}
	return out
}

// announce forwards a table outcome to the coordinator. It must run without
// holding mu.
func (e *Engine) announce(ctx context.Context, out tables.Outcome) {
	if e.tables == nil || !out.Changed {
		return
	}
	e.tables.Announce(ctx, out)
}
