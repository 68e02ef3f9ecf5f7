package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/appetiteclub/pos/internal/apperr"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestCollectionLoadEmpty(t *testing.T) {
	c := NewCollection[record](NewMemory(), MenuCategories)

	records, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Load() on missing collection = %v, want empty slice", records)
	}
}

func TestCollectionSaveLoadPreservesOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[record](NewMemory(), MenuCategories)

	in := []record{{ID: "c2", Name: "Soups"}, {ID: "c1", Name: "All"}, {ID: "c3", Name: "Pasta"}}
	if err := c.Save(ctx, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("Load()[%d] = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestCollectionMutate(t *testing.T) {
	domainErr := apperr.NotFound("record r9")

	tests := []struct {
		name      string
		fn        func([]record) ([]record, error)
		wantLen   int
		wantErr   error
		wantStore bool
	}{
		{
			name: "appends",
			fn: func(rs []record) ([]record, error) {
				return append(rs, record{ID: "r2"}), nil
			},
			wantLen: 2,
		},
		{
			name: "noChange",
			fn: func(rs []record) ([]record, error) {
				return nil, ErrNoChange
			},
			wantLen: 1,
		},
		{
			name: "domainErrorPassesThrough",
			fn: func(rs []record) ([]record, error) {
				return nil, domainErr
			},
			wantLen: 1,
			wantErr: domainErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c := NewCollection[record](NewMemory(), Orders)
			_ = c.Save(ctx, []record{{ID: "r1"}})

			err := c.Mutate(ctx, tt.fn)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("Mutate() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Mutate() unexpected error = %v", err)
			}

			records, _ := c.Load(ctx)
			if len(records) != tt.wantLen {
				t.Errorf("records after Mutate() = %d, want %d", len(records), tt.wantLen)
			}
		})
	}
}

func TestCollectionCorruptPayload(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, Orders, []byte("{not json"))
	c := NewCollection[record](m, Orders)

	if _, err := c.Load(ctx); !errors.Is(err, apperr.ErrStore) {
		t.Errorf("Load() on corrupt payload error = %v, want store error", err)
	}

	err := c.Mutate(ctx, func(rs []record) ([]record, error) { return rs, nil })
	if !errors.Is(err, apperr.ErrStore) {
		t.Errorf("Mutate() on corrupt payload error = %v, want store error", err)
	}
}

func TestRetryOnConflict(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{name: "succeedsFirstTime", failures: 0, attempts: 3, wantCalls: 1},
		{name: "succeedsAfterConflicts", failures: 2, attempts: 3, wantCalls: 3},
		{name: "givesUp", failures: 5, attempts: 3, wantCalls: 3, wantErr: ErrConflict},
		{name: "atLeastOneAttempt", failures: 0, attempts: 0, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryOnConflict(context.Background(), tt.attempts, func(ctx context.Context) error {
				calls++
				if calls <= tt.failures {
					return ErrConflict
				}
				return nil
			})

			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("RetryOnConflict() error = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("RetryOnConflict() calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryOnConflictStopsOnOtherErrors(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), 5, func(ctx context.Context) error {
		calls++
		return errBoom
	})
	if !errors.Is(err, errBoom) || calls != 1 {
		t.Errorf("RetryOnConflict() = %v after %d calls, want boom after 1", err, calls)
	}
}
