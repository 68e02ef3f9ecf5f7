package kv

import (
	"context"
	"errors"
)

// Logical collections kept by the POS.
const (
	MenuItems      = "menu:items"
	MenuCategories = "menu:categories"
	Orders         = "orders"
	Tables         = "tables"
	Staff          = "staff"
)

var AllCollections = []string{MenuItems, MenuCategories, Orders, Tables, Staff}

// MaxUpdateAttempts bounds the optimistic retry loop of durable backends.
const MaxUpdateAttempts = 5

var (
	// ErrNoChange is returned by an UpdateFunc to abort the write without error.
	ErrNoChange = errors.New("kv: no change")
	// ErrConflict signals a lost optimistic write race.
	ErrConflict = errors.New("kv: write conflict")
)

// UpdateFunc receives the current encoded collection (nil when absent) and
// returns its replacement. Errors other than ErrNoChange are returned
// unchanged by Update.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is a whole-collection key-value store.
type Store interface {
	Get(ctx context.Context, collection string) ([]byte, error)
	Set(ctx context.Context, collection string, data []byte) error
	Exists(ctx context.Context, collection string) (bool, error)
	Update(ctx context.Context, collection string, fn UpdateFunc) error
	Delete(ctx context.Context, collection string) error
}

// RetryOnConflict runs op until it stops reporting ErrConflict or the attempts
// are exhausted.
func RetryOnConflict(ctx context.Context, attempts int, op func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = op(ctx)
		if !errors.Is(err, ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
