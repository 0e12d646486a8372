package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"github.com/iliyamo/film-catalog/internal/config"
	"github.com/iliyamo/film-catalog/internal/metrics"
	"github.com/iliyamo/film-catalog/internal/queue"
)

// publishChannel is the slice of *amqp.Channel the publisher needs.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// brokerSession owns a connection and the channel opened on it.
type brokerSession struct {
	conn *amqp.Connection
	*amqp.Channel
}

func (s *brokerSession) Close() error {
	_ = s.Channel.Close()
	return s.conn.Close()
}

// FeedPublisher sends like events to the feed queue on the default
// exchange.  The channel is opened lazily and reopened after a failure.
// A circuit breaker stops dialling a dead broker on every like.
type FeedPublisher struct {
	queue   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[struct{}]

	mu   sync.Mutex
	ch   publishChannel
	dial func() (publishChannel, error)
}

// NewFeedPublisher builds a publisher for cfg.  No connection is made
// until the first publish.
func NewFeedPublisher(cfg config.AMQPConfig) *FeedPublisher {
	p := &FeedPublisher{
		queue:   cfg.FeedQueue,
		timeout: cfg.PublishTimeout,
	}
	p.dial = func() (publishChannel, error) { return dialFeedQueue(cfg.URL, cfg.FeedQueue) }
	p.breaker = newPublishBreaker("feed-publisher", cfg.BreakerThreshold, cfg.BreakerTimeout)
	return p
}

func newPublishBreaker(name string, threshold uint32, timeout time.Duration) *gobreaker.CircuitBreaker[struct{}] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}

func dialFeedQueue(url, queueName string) (publishChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	return &brokerSession{conn: conn, Channel: ch}, nil
}

// PublishLike sends ev as a persistent JSON message.
func (p *FeedPublisher) PublishLike(ctx context.Context, ev queue.LikeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal like event: %w", err)
	}
	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.publish(ctx, body)
	})
	switch {
	case err == nil:
		metrics.FeedEventsPublished.WithLabelValues("ok").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.FeedEventsPublished.WithLabelValues("breaker_open").Inc()
	default:
		metrics.FeedEventsPublished.WithLabelValues("error").Inc()
	}
	return err
}

func (p *FeedPublisher) publish(ctx context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		ch, err := p.dial()
		if err != nil {
			return err
		}
		p.ch = ch
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		_ = p.ch.Close()
		p.ch = nil
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the broker connection, if any.
func (p *FeedPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}
