package commands

import (
	"context"

	"github.com/appetiteclub/pos/internal/app"
	"github.com/appetiteclub/pos/internal/seeding"
	"github.com/aquamarinepk/aqm"
)

// SeedDemo applies the demo data set to the configured store.
func SeedDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Starting demo seeding...")

	return withBackend(ctx, config, logger, func(b *app.Backend) error {
		return seeding.Apply(ctx, b.Store, b.Database(), 0, logger)
	})
}
