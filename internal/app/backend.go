package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/appetiteclub/pos/internal/kv"
	"github.com/appetiteclub/pos/internal/mongo"
	"github.com/appetiteclub/pos/internal/natskv"
	"github.com/appetiteclub/pos/internal/postgres"
	"github.com/aquamarinepk/aqm"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverNATS     = "nats"
)

type lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Backend is the configured kv.Store plus whatever lifecycle it needs.
type Backend struct {
	Driver string
	Store  kv.Store
	mongo  *mongo.Store
	hooks  lifecycle
}

// ConfiguredDriver reads store.driver, memory when unset.
func ConfiguredDriver(config *aqm.Config) string {
	return config.GetStringOrDef("store.driver", DriverMemory)
}

// NewBackend builds the store for driver. Durable stores are not connected
// until Start.
func NewBackend(driver string, config *aqm.Config, logger aqm.Logger) (*Backend, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = DriverMemory
	}

	b := &Backend{Driver: driver}
	switch driver {
	case DriverMemory:
		b.Store = kv.NewMemory()
	case DriverMongo:
		s := mongo.NewStore(config, logger)
		b.Store, b.mongo, b.hooks = s, s, s
	case DriverPostgres:
		s := postgres.NewStore(config, logger)
		b.Store, b.hooks = s, s
	case DriverNATS:
		s := natskv.NewStore(config, logger)
		b.Store, b.hooks = s, s
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
	return b, nil
}

func (b *Backend) Start(ctx context.Context) error {
	if b.hooks == nil {
		return nil
	}
	return b.hooks.Start(ctx)
}

func (b *Backend) Stop(ctx context.Context) error {
	if b.hooks == nil {
		return nil
	}
	return b.hooks.Stop(ctx)
}

// Database returns the mongo database backing the store, or nil for the
// other drivers.
func (b *Backend) Database() *mongodrv.Database {
	if b.mongo == nil {
		return nil
	}
	return b.mongo.GetDatabase()
}
