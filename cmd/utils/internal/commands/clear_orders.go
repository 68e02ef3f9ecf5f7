package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/pos/internal/app"
	"github.com/appetiteclub/pos/internal/kv"
	"github.com/appetiteclub/pos/internal/order"
	"github.com/appetiteclub/pos/internal/tables"
	"github.com/aquamarinepk/aqm"
)

// ClearOrders empties the orders collection and frees every occupied table, leaving
// menu and staff data in place.
func ClearOrders(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	return withBackend(ctx, config, logger, func(b *app.Backend) error {
		return ClearOrderData(ctx, b.Store, logger)
	})
}

func ClearOrderData(ctx context.Context, store kv.Store, logger aqm.Logger) error {
	orders := kv.NewCollection[order.Order](store, kv.Orders)
	if err := orders.Save(ctx, nil); err != nil {
		return fmt.Errorf("clear orders: %w", err)
	}
	logger.Info("Cleared orders")

	var freed int
	err := kv.NewCollection[tables.Table](store, kv.Tables).Mutate(ctx, func(list []tables.Table) ([]tables.Table, error) {
		freed = 0
		for i := range list {
			if list[i].Status != tables.StatusOccupied {
				continue
			}
			list[i].Status = tables.StatusAvailable
			list[i].CurrentOrderID = ""
			freed++
		}
		if freed == 0 {
			return nil, kv.ErrNoChange
		}
		return list, nil
	})
	if err != nil {
		return fmt.Errorf("free tables: %w", err)
	}
	logger.Info("Freed tables", "count", freed)
	return nil
}
