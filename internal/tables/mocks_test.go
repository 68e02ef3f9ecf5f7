package tables

import (
	"context"
	"sync"
)

// MockPublisher records every published message.
type MockPublisher struct {
	mu          sync.Mutex
	messages    []publishedMessage
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

type publishedMessage struct {
	topic   string
	payload []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, publishedMessage{topic: topic, payload: msg})
	return nil
}

func (m *MockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// MockService is a Service with overridable behaviour.
type MockService struct {
	ListFunc   func(ctx context.Context) ([]Table, error)
	GetFunc    func(ctx context.Context, number string) (*Table, error)
	CreateFunc func(ctx context.Context, req TableCreateRequest) (*Table, error)
}

func (m *MockService) List(ctx context.Context) ([]Table, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []Table{}, nil
}

func (m *MockService) Get(ctx context.Context, number string) (*Table, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, number)
	}
	return &Table{Number: number, Status: StatusAvailable}, nil
}

func (m *MockService) Create(ctx context.Context, req TableCreateRequest) (*Table, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	t := NewTable(req.Number, req.Capacity)
	return &t, nil
}
