package seeding

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/pos/internal/kv"
	"github.com/appetiteclub/pos/internal/menu"
	"github.com/appetiteclub/pos/internal/order"
	"github.com/appetiteclub/pos/internal/staff"
	"github.com/appetiteclub/pos/internal/tables"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

//go:embed seed.json
var seedFS embed.FS

const seedApplication = "pos"

type StaffSeed struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Pin   string `json:"pin"`
}

// OrderSeed is an open dine-in order. Totals and timestamps are filled in
// when the seed runs.
type OrderSeed struct {
	ID           string            `json:"id"`
	TableNumber  string            `json:"tableNumber"`
	CustomerName string            `json:"customerName"`
	StaffID      string            `json:"staffId"`
	Items        []order.OrderItem `json:"items"`
}

// Document is the demo data set. Staff PINs are plain text here and hashed
// when the seed runs. Every occupied table names the seeded order holding it.
type Document struct {
	Categories []menu.Category `json:"categories"`
	MenuItems  []menu.MenuItem `json:"menuItems"`
	Tables     []tables.Table  `json:"tables"`
	Staff      []StaffSeed     `json:"staff"`
	Orders     []OrderSeed     `json:"orders"`
}

// Load reads the embedded demo document.
func Load() (Document, error) {
	data, err := seedFS.ReadFile("seed.json")
	if err != nil {
		return Document{}, fmt.Errorf("cannot read seed file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("cannot parse seed file: %w", err)
	}
	return doc, nil
}

// Seeds builds one seed per collection. A seed leaves an existing collection
// untouched, so running them twice is harmless.
func Seeds(store kv.Store, doc Document, hashCost int) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "pos_menu_categories_v1",
			Description: "Create demo menu categories",
			Run: func(ctx context.Context) error {
				return seedCollection(ctx, kv.NewCollection[menu.Category](store, kv.MenuCategories), doc.Categories)
			},
		},
		{
			ID:          "pos_menu_items_v1",
			Description: "Create demo menu items",
			Run: func(ctx context.Context) error {
				return seedCollection(ctx, kv.NewCollection[menu.MenuItem](store, kv.MenuItems), doc.MenuItems)
			},
		},
		{
			ID:          "pos_tables_v1",
			Description: "Create demo tables",
			Run: func(ctx context.Context) error {
				return seedCollection(ctx, kv.NewCollection[tables.Table](store, kv.Tables), doc.Tables)
			},
		},
		{
			ID:          "pos_staff_v1",
			Description: "Create demo staff with hashed PINs",
			Run: func(ctx context.Context) error {
				members, err := hashStaff(doc.Staff, hashCost)
				if err != nil {
					return err
				}
				return seedCollection(ctx, kv.NewCollection[staff.Staff](store, kv.Staff), members)
			},
		},
		{
			ID:          "pos_orders_v1",
			Description: "Create the open demo orders",
			Run: func(ctx context.Context) error {
				orders := buildOrders(doc.Orders, time.Now().UTC())
				return seedCollection(ctx, kv.NewCollection[order.Order](store, kv.Orders), orders)
			},
		},
	}
}

// Apply runs the demo seeds. With a mongo database the runs are tracked by
// seed id; without one every seed runs and relies on its own existence check.
func Apply(ctx context.Context, store kv.Store, db *mongo.Database, hashCost int, logger aqm.Logger) error {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	doc, err := Load()
	if err != nil {
		return err
	}
	seeds := Seeds(store, doc, hashCost)

	if db != nil {
		tracker := seed.NewMongoTracker(db)
		if err := seed.Apply(ctx, tracker, seeds, seedApplication); err != nil {
			return fmt.Errorf("demo seed failed: %w", err)
		}
		logger.Info("Demo data seeded", "tracker", "mongo")
		return nil
	}

	for _, s := range seeds {
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("seed %s failed: %w", s.ID, err)
		}
		logger.Debug("seed applied", "id", s.ID)
	}
	logger.Info("Demo data seeded", "seeds", len(seeds))
	return nil
}

// StopFunc cancels in-flight seeding on shutdown.
func StopFunc(cancel context.CancelFunc) func(context.Context) error {
	return func(context.Context) error {
		cancel()
		return nil
	}
}

func seedCollection[T any](ctx context.Context, c *kv.Collection[T], records []T) error {
	exists, err := c.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.Save(ctx, records)
}

func hashStaff(seeds []StaffSeed, cost int) ([]staff.Staff, error) {
	members := make([]staff.Staff, 0, len(seeds))
	for _, s := range seeds {
		hash, err := staff.HashPin(s.Pin, cost)
		if err != nil {
			return nil, fmt.Errorf("cannot hash pin for %s: %w", s.Email, err)
		}
		members = append(members, staff.Staff{
			ID:      s.ID,
			Name:    s.Name,
			Email:   s.Email,
			Role:    s.Role,
			PinHash: hash,
		})
	}
	return members, nil
}

func buildOrders(seeds []OrderSeed, now time.Time) []order.Order {
	orders := make([]order.Order, 0, len(seeds))
	for _, s := range seeds {
		totals := order.ComputeTotals(s.Items)
		orders = append(orders, order.Order{
			ID:            s.ID,
			TableNumber:   s.TableNumber,
			CustomerName:  s.CustomerName,
			Items:         s.Items,
			Status:        order.StatusPending,
			DiningMode:    order.DiningDineIn,
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Total:         totals.Total,
			PaymentStatus: order.PaymentStatusPending,
			StaffID:       s.StaffID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return orders
}
