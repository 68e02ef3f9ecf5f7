package app

import (
	"context"
	"fmt"

	"github.com/appetiteclub/pos/internal/menu"
	"github.com/appetiteclub/pos/internal/order"
	"github.com/appetiteclub/pos/internal/report"
	"github.com/appetiteclub/pos/internal/seeding"
	"github.com/appetiteclub/pos/internal/staff"
	"github.com/appetiteclub/pos/internal/tables"
	"github.com/appetiteclub/pos/pkg"
	"github.com/aquamarinepk/aqm"
	aqmevents "github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/middleware"
	"github.com/nats-io/nats.go"
)

const (
	AppName    = "pos"
	AppVersion = "0.1.0"
)

// App wires the POS modules into one micro service.
type App struct {
	config  *aqm.Config
	logger  aqm.Logger
	micro   *aqm.Micro
	backend *Backend
}

func New(config *aqm.Config, logger aqm.Logger) (*App, error) {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &App{
		config: config,
		logger: logger,
	}, nil
}

func (a *App) Initialize(ctx context.Context) error {
	backend, err := NewBackend(ConfiguredDriver(a.config), a.config, a.logger)
	if err != nil {
		return err
	}
	a.backend = backend
	a.logger.Info("store selected", "driver", backend.Driver)

	lifecycles := []interface{}{backend}

	var publisher aqmevents.Publisher
	eventsEnabled, _ := a.config.GetString("events.enabled")
	if eventsEnabled == "true" {
		natsURL := a.config.GetStringOrDef("nats.url", nats.DefaultURL)
		pub, err := pkg.NewNATSPublisher(natsURL)
		if err != nil {
			return fmt.Errorf("cannot connect to NATS publisher: %w", err)
		}
		publisher = pub
		lifecycles = append(lifecycles, pub)
	}

	store := backend.Store
	coordinator := tables.NewCoordinator(store, publisher, a.logger)
	catalog := menu.NewService(store, a.logger)
	engine := order.NewEngine(order.EngineDeps{
		Store:     store,
		Tables:    coordinator,
		Catalog:   catalog,
		Publisher: publisher,
		Logger:    a.logger,
	})
	staffSvc := staff.NewService(store, 0, a.logger)
	reports := report.NewService(engine, a.logger)

	demoEnabled, _ := a.config.GetString("seeding.demo")
	if demoEnabled == "true" {
		a.logger.Info("Demo seeding enabled for pos service")
		seedCtx, cancelSeeds := context.WithCancel(ctx)
		seedHooks := aqm.LifecycleHooks{
			OnStart: func(context.Context) error {
				return seeding.Apply(seedCtx, store, backend.Database(), 0, a.logger)
			},
			OnStop: seeding.StopFunc(cancelSeeds),
		}
		lifecycles = append(lifecycles, seedHooks)
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: a.logger,
	})

	options := []aqm.Option{
		aqm.WithConfig(a.config),
		aqm.WithLogger(a.logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port",
			order.NewHandler(engine, a.config, a.logger),
			tables.NewHandler(coordinator, a.config, a.logger),
			menu.NewHandler(catalog, a.config, a.logger),
			staff.NewHandler(staffSvc, a.config, a.logger),
			report.NewHandler(reports, a.config, a.logger),
		),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(AppName),
	}

	a.micro = aqm.NewMicro(options...)
	return nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("Starting %s(%s)", AppName, AppVersion)
	if err := a.micro.Run(ctx); err != nil {
		return err
	}
	a.logger.Infof("%s(%s) stopped", AppName, AppVersion)
	return nil
}
