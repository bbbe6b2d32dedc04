// Package rabbitmq publishes restaurant notifications to a fanout exchange. Every bound
// queue (dashboards, push gateways, audit) receives every notification.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "notifications_fanout"

	service = "notification broker"
)

// Message is the wire form of a notification.
type Message struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	OrderID      string    `json:"order_id"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

func toMessage(n *notification.Notification) Message {
	return Message{
		ID:           n.ID().String(),
		RestaurantID: n.RestaurantID().String(),
		OrderID:      n.OrderID().String(),
		Type:         string(n.Type()),
		Message:      n.Message(),
		CreatedAt:    n.CreatedAt(),
	}
}

// NotificationPublisher implements ports.NotificationPublisher. Publishes wait for the
// broker's confirm, so a nil error means the broker took responsibility for the message.
type NotificationPublisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewNotificationPublisher(url, exchange string) (*NotificationPublisher, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("rabbitmq url")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &NotificationPublisher{url: url, exchange: exchange}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *NotificationPublisher) Publish(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(toMessage(n))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		if err = p.connect(); err != nil {
			return err
		}
	}

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx,
		p.exchange, // exchange
		"",         // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			MessageId:    n.ID().String(),
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return errs.NewUpstreamUnavailableError(service, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return errs.NewUpstreamUnavailableError(service, err)
	}
	if !acked {
		return errs.NewUpstreamUnavailableError(service, fmt.Errorf("broker nacked notification %s", n.ID()))
	}
	return nil
}

func (p *NotificationPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.ch != nil && !p.ch.IsClosed() {
		err = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

// connect dials, puts the channel in confirm mode and declares the exchange.
// Callers hold p.mu.
func (p *NotificationPublisher) connect() error {
	if p.conn != nil && !p.conn.IsClosed() {
		_ = p.conn.Close()
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return errs.NewUpstreamUnavailableError(service, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errs.NewUpstreamUnavailableError(service, err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = conn.Close()
		return errs.NewUpstreamUnavailableError(service, err)
	}

	err = ch.ExchangeDeclare(
		p.exchange, // name
		"fanout",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		_ = conn.Close()
		return errs.NewUpstreamUnavailableError(service, err)
	}

	p.conn = conn
	p.ch = ch
	return nil
}
