package pkg

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSPublisher satisfies events.Publisher over a core NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("appetite-pos"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.conn.Publish(topic, msg)
}

func (p *NATSPublisher) Start(ctx context.Context) error {
	return nil
}

// Stop flushes pending messages before closing the connection.
func (p *NATSPublisher) Stop(ctx context.Context) error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		p.conn.Close()
		return fmt.Errorf("cannot flush NATS connection: %w", err)
	}
	p.conn.Close()
	return nil
}
