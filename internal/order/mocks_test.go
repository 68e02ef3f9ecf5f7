package order

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/appetiteclub/pos/internal/kv"
	"github.com/appetiteclub/pos/pkg"
)

// MockPublisher records order status events.
type MockPublisher struct {
	mu          sync.Mutex
	events      []pkg.OrderStatusEvent
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	if topic != pkg.OrderStatusTopic {
		return nil
	}
	var event pkg.OrderStatusEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// MockCatalog serves menu items from a map.
type MockCatalog struct {
	items      map[string]catalogItem
	LookupFunc func(ctx context.Context, id string) (string, float64, error)
}

type catalogItem struct {
	title     string
	price     float64
	available bool
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{items: map[string]catalogItem{
		"item1": {title: "Tasty Vegetable Salad", price: 17.99, available: true},
		"item2": {title: "Meat Burger With Chips", price: 23.99, available: true},
		"item9": {title: "Seasonal Soup", price: 7.5, available: false},
	}}
}

func (m *MockCatalog) Lookup(ctx context.Context, id string) (string, float64, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, id)
	}
	item, ok := m.items[id]
	if !ok {
		return "", 0, apperr.NotFound("menu item %s", id)
	}
	if !item.available {
		return "", 0, apperr.Validation("menu item %s is not available", id)
	}
	return item.title, item.price, nil
}

var errBackend = errors.New("backend unavailable")

// failingStore fails every write to the named collection.
type failingStore struct {
	kv.Store
	collection string
}

func (s *failingStore) Update(ctx context.Context, collection string, fn kv.UpdateFunc) error {
	if collection == s.collection {
		return errBackend
	}
	return s.Store.Update(ctx, collection, fn)
}

func (s *failingStore) Get(ctx context.Context, collection string) ([]byte, error) {
	if collection == s.collection {
		return nil, errBackend
	}
	return s.Store.Get(ctx, collection)
}
