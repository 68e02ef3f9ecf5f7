package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/pos/internal/app"
	"github.com/appetiteclub/pos/internal/kv"
	"github.com/aquamarinepk/aqm"
)

// ResetDB deletes every POS collection from the configured store.
func ResetDB(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Infof("DANGER: this deletes every POS collection and cannot be undone")

	return withBackend(ctx, config, logger, func(b *app.Backend) error {
		return ResetStore(ctx, b.Store, logger)
	})
}

func ResetStore(ctx context.Context, store kv.Store, logger aqm.Logger) error {
	for _, name := range kv.AllCollections {
		if err := store.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete collection %s: %w", name, err)
		}
		logger.Info("Deleted collection", "collection", name)
	}
	return nil
}
