package order

import (
	"context"
	"encoding/json"

	"github.com/appetiteclub/pos/pkg"
)

func (e *Engine) publishStatus(ctx context.Context, eventType string, o *Order, previous string) {
	if e.publisher == nil || o == nil {
		return
	}

	event := pkg.OrderStatusEvent{
		EventType:      eventType,
		OrderID:        o.ID,
		TableNumber:    o.TableNumber,
		Status:         o.Status,
		PreviousStatus: previous,
		PaymentMethod:  o.PaymentMethod,
		Total:          o.Total,
		OccurredAt:     e.now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		e.logger.Error("cannot marshal order status event", "error", err, "order_id", o.ID)
		return
	}

	if err := e.publisher.Publish(ctx, pkg.OrderStatusTopic, payload); err != nil {
		e.logger.Error("cannot publish order status event", "error", err, "order_id", o.ID)
	}
}
