package app

import (
	"context"
	"testing"

	"github.com/appetiteclub/pos/internal/kv"
	"github.com/aquamarinepk/aqm"
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr bool
	}{
		{name: "defaultsToMemory"},
		{name: "memory", driver: "memory"},
		{name: "mongo", driver: "mongo"},
		{name: "postgres", driver: "postgres"},
		{name: "nats", driver: "NATS"},
		{name: "unknown", driver: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBackend(tt.driver, aqm.NewConfig(), nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend() error = %v", err)
			}
			if b.Store == nil {
				t.Fatal("expected a store")
			}
		})
	}
}

func TestMemoryBackendLifecycle(t *testing.T) {
	b, err := NewBackend(ConfiguredDriver(aqm.NewConfig()), aqm.NewConfig(), nil)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, ok := b.Store.(*kv.Memory); !ok {
		t.Errorf("store = %T, want *kv.Memory", b.Store)
	}
	if b.Database() != nil {
		t.Error("memory backend should not expose a mongo database")
	}
	if err := b.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}
