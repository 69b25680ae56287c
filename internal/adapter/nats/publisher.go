package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

type MessagePublisher interface {
	Publish(ctx context.Context, subject string, message interface{}) error
	PublishRaw(ctx context.Context, subject string, data []byte) error
}

type natsPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSPublisher publishes JSON messages. A non-empty prefix is prepended to
// every subject as "<prefix>.<subject>".
func NewNATSPublisher(conn *nats.Conn, prefix string) (MessagePublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	return &natsPublisher{
		conn:   conn,
		prefix: prefix,
	}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message to JSON for subject %s: %w", subject, err)
	}

	return p.PublishRaw(ctx, subject, data)
}

func (p *natsPublisher) PublishRaw(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := qualify(p.prefix, subject)
	if err := p.conn.Publish(full, data); err != nil {
		return fmt.Errorf("failed to publish message to NATS subject %s: %w", full, err)
	}

	return nil
}

func qualify(prefix, subject string) string {
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

type noopPublisher struct{}

// NewNoopPublisher is used when no NATS URL is configured.
func NewNoopPublisher() MessagePublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	return nil
}

func (noopPublisher) PublishRaw(ctx context.Context, subject string, data []byte) error {
	return nil
}
