package kv

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryGetSetExists(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ok, err := m.Exists(ctx, Orders)
	if err != nil || ok {
		t.Fatalf("Exists() on empty store = %v, %v; want false, nil", ok, err)
	}

	got, err := m.Get(ctx, Orders)
	if err != nil || got != nil {
		t.Fatalf("Get() on empty store = %v, %v; want nil, nil", got, err)
	}

	if err := m.Set(ctx, Orders, []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	ok, _ = m.Exists(ctx, Orders)
	if !ok {
		t.Error("Exists() after Set() should be true")
	}

	got, _ = m.Get(ctx, Orders)
	if string(got) != `[]` {
		t.Errorf("Get() = %q, want %q", got, `[]`)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, Tables, []byte("abc"))

	got, _ := m.Get(ctx, Tables)
	got[0] = 'z'

	again, _ := m.Get(ctx, Tables)
	if string(again) != "abc" {
		t.Errorf("stored value mutated through Get() result: %q", again)
	}
}

func TestMemoryUpdate(t *testing.T) {
	tests := []struct {
		name    string
		fn      UpdateFunc
		want    string
		wantErr error
	}{
		{
			name: "writesReplacement",
			fn: func(current []byte) ([]byte, error) {
				return append(current, 'b'), nil
			},
			want: "ab",
		},
		{
			name: "noChangeSkipsWrite",
			fn: func(current []byte) ([]byte, error) {
				return []byte("ignored"), ErrNoChange
			},
			want: "a",
		},
		{
			name: "errorIsReturnedUnchanged",
			fn: func(current []byte) ([]byte, error) {
				return nil, errBoom
			},
			want:    "a",
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := NewMemory()
			_ = m.Set(ctx, Staff, []byte("a"))

			err := m.Update(ctx, Staff, tt.fn)
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
			}

			got, _ := m.Get(ctx, Staff)
			if string(got) != tt.want {
				t.Errorf("value after Update() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMemoryUpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[int](NewMemory(), Orders)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = c.Mutate(ctx, func(records []int) ([]int, error) {
				return append(records, n), nil
			})
		}(i)
	}
	wg.Wait()

	records, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 50 {
		t.Errorf("Load() returned %d records, want 50", len(records))
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, MenuItems, []byte(`[]`))

	if err := m.Delete(ctx, MenuItems); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, _ := m.Exists(ctx, MenuItems); ok {
		t.Error("Exists() after Delete() should be false")
	}
}

var errBoom = errors.New("boom")
