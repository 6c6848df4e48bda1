package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/streadway/amqp"
)

var ErrClosed = errors.New("publisher closed")

// Messageはexchangeに流すJSONの形
type Message struct {
	Pattern string      `json:"pattern"`
	Data    interface{} `json:"data"`
}

type Publisher struct {
	url      string
	exchange string

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	p := &Publisher{url: amqpURL, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	// durableなtopic exchange
	if err := channel.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		channel.Close()
		conn.Close()
		return ErrClosed
	}
	p.conn = conn
	p.channel = channel
	return nil
}

// Watch は接続が切れたらretryごとに張り直す。ctxが終わるかCloseされるまで戻らない
func (p *Publisher) Watch(ctx context.Context, retry time.Duration) error {
	for {
		p.mu.RLock()
		conn, closed := p.conn, p.closed
		p.mu.RUnlock()
		if closed {
			return nil
		}

		lost := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-lost:
			if p.isClosed() {
				return nil
			}
			log.Warnf("rabbitmq connection lost: %v", amqpErr)
		}

		if err := p.reconnect(ctx, retry); err != nil {
			return nil
		}
		log.Info("rabbitmq reconnected")
	}
}

// ctxが終わったらエラー
func (p *Publisher) reconnect(ctx context.Context, retry time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}

		err := p.connect()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrClosed) {
			return err
		}
		log.Warnf("rabbitmq reconnect: %v", err)
	}
}

func (p *Publisher) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encode(routingKey, data)
	if err != nil {
		return err
	}

	p.mu.RLock()
	channel, closed := p.channel, p.closed
	p.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	log.Debugf("publish %s to %s", routingKey, p.exchange)
	err = channel.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

func encode(pattern string, data interface{}) ([]byte, error) {
	body, err := json.Marshal(Message{Pattern: pattern, Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return body, nil
}
