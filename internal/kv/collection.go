package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/appetiteclub/pos/internal/apperr"
)

// Collection is a typed view over one store collection. Records are encoded
// as a JSON array; insertion order is preserved.
type Collection[T any] struct {
	store Store
	name  string
}

func NewCollection[T any](store Store, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.name)
	if err != nil {
		return nil, apperr.Store("load "+c.name, err)
	}
	records, err := decode[T](raw)
	if err != nil {
		return nil, apperr.Store("decode "+c.name, err)
	}
	return records, nil
}

func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	raw, err := encode(records)
	if err != nil {
		return apperr.Store("encode "+c.name, err)
	}
	return apperr.Store("save "+c.name, c.store.Set(ctx, c.name, raw))
}

func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	ok, err := c.store.Exists(ctx, c.name)
	if err != nil {
		return false, apperr.Store("check "+c.name, err)
	}
	return ok, nil
}

// Mutate applies fn atomically to the decoded records. Returning ErrNoChange
// from fn skips the write. Errors produced by fn are returned as is; every
// other failure is reported as a store error.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(records []T) ([]T, error)) error {
	var fnErr error

	err := c.store.Update(ctx, c.name, func(current []byte) ([]byte, error) {
		fnErr = nil
		records, err := decode[T](current)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.name, err)
		}

		next, err := fn(records)
		if err != nil {
			if !errors.Is(err, ErrNoChange) {
				fnErr = err
			}
			return nil, err
		}

		return encode(next)
	})

	if err == nil {
		return nil
	}
	if fnErr != nil && errors.Is(err, fnErr) {
		return fnErr
	}
	return apperr.Store("update "+c.name, err)
}

func decode[T any](raw []byte) ([]T, error) {
	if len(raw) == 0 {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.Marshal(records)
}
