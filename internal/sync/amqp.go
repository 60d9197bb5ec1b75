package syncx

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes events as JSON onto a durable queue through the
// default exchange.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &AMQPPublisher{conn: conn, channel: ch, queue: queue}, nil
}

type wireEvent struct {
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	SiteID    string          `json:"site_id"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
}

func (p *AMQPPublisher) Append(ctx context.Context, e Event) error {
	body, err := json.Marshal(wireEvent{
		Type: e.Type, Key: e.Key, SiteID: e.SiteID,
		Data: json.RawMessage(e.DataJSON), CreatedAt: e.CreatedAt,
	})
	if err != nil {
		return err
	}
	// amqp channels are not safe for concurrent publishes
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         e.Type,
		Body:         body,
		Timestamp:    time.Now(),
	})
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
