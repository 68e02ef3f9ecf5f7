package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/pos/internal/app"
	"github.com/aquamarinepk/aqm"
)

// withBackend starts the configured store, runs fn and stops the store.
func withBackend(ctx context.Context, config *aqm.Config, logger aqm.Logger, fn func(b *app.Backend) error) error {
	backend, err := app.NewBackend(app.ConfiguredDriver(config), config, logger)
	if err != nil {
		return err
	}

	if err := backend.Start(ctx); err != nil {
		return fmt.Errorf("start %s store: %w", backend.Driver, err)
	}
	defer func() {
		if err := backend.Stop(context.Background()); err != nil {
			logger.Error("cannot stop store", "driver", backend.Driver, "error", err)
		}
	}()

	logger.Info("Connected to store", "driver", backend.Driver)
	return fn(backend)
}
