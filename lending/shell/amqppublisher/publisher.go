package amqppublisher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

const (
	exchangeKind   = "topic"
	routingPrefix  = "reservation."
	contentType    = "application/json"
	transitionType = "ReservationTransition"
)

var (
	ErrDialFailed              = errors.New("dialing the message broker failed")
	ErrDeclaringExchangeFailed = errors.New("declaring the exchange failed")
	ErrPublishingFailed        = errors.New("publishing the transition event failed")
	ErrEmptyExchange           = errors.New("exchange name must not be empty")
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements shell.TransitionPublisher over one AMQP channel.
type Publisher struct {
	conn     *amqp.Connection
	ch       Channel
	exchange string
}

// Dial connects to the broker, opens a channel and declares the durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		return nil, ErrEmptyExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Join(ErrDialFailed, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Join(ErrDialFailed, fmt.Errorf("open channel: %w", err))
	}

	p, err := NewPublisher(ch, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	p.conn = conn

	return p, nil
}

// NewPublisher declares the exchange on an already open channel.
func NewPublisher(ch Channel, exchange string) (*Publisher, error) {
	if exchange == "" {
		return nil, ErrEmptyExchange
	}

	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, errors.Join(ErrDeclaringExchangeFailed, err)
	}

	return &Publisher{ch: ch, exchange: exchange}, nil
}

// RoutingKey is the routing key of the event.
func RoutingKey(event core.TransitionEvent) string {
	return routingPrefix + strings.ToLower(event.To.String())
}

// Publish sends the event as a persistent message.
func (p *Publisher) Publish(ctx context.Context, event core.TransitionEvent) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		return errors.Join(ErrPublishingFailed, err)
	}

	msg := amqp.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         transitionType,
		Body:         body,
	}

	if err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(event), false, false, msg); err != nil {
		return errors.Join(ErrPublishingFailed, err)
	}

	return nil
}

// Close closes the channel and the connection, if the publisher owns one.
func (p *Publisher) Close() error {
	err := p.ch.Close()

	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}

	return err
}

var _ shell.TransitionPublisher = (*Publisher)(nil)
