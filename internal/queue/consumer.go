package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/film-catalog/internal/config"
	"github.com/iliyamo/film-catalog/internal/metrics"
	"github.com/iliyamo/film-catalog/internal/model"
)

// EventStore persists feed events.
type EventStore interface {
	Insert(ctx context.Context, ev model.FeedEvent) (uint64, error)
}

// errMalformed marks messages that can never be stored.
var errMalformed = errors.New("malformed feed message")

// errAlreadyStored marks events whose feed row the producer wrote itself.
var errAlreadyStored = errors.New("feed event already stored")

// FeedConsumer reads like events from the feed queue and appends them to
// the feed_events table.
type FeedConsumer struct {
	url   string
	queue string
	store EventStore
	log   zerolog.Logger
}

// NewFeedConsumer panics on a nil store.
func NewFeedConsumer(cfg config.AMQPConfig, store EventStore) *FeedConsumer {
	if store == nil {
		panic("nil EventStore")
	}
	return &FeedConsumer{
		url:   cfg.URL,
		queue: cfg.FeedQueue,
		store: store,
		log:   log.With().Str("component", "feed-consumer").Str("queue", cfg.FeedQueue).Logger(),
	}
}

// Run connects to the broker and consumes until ctx is cancelled.  Lost
// connections are re-dialled with exponential backoff capped at 30s.
func (c *FeedConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *FeedConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn().Err(err).Msg("set QoS failed")
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info().Msg("consuming")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.ack(d, c.Handle(ctx, d.Body))
		}
	}
}

// ack settles a delivery.  Malformed messages are dropped; a store failure
// is requeued once and dropped when it fails again.
func (c *FeedConsumer) ack(d amqp.Delivery, err error) {
	switch {
	case err == nil:
		metrics.FeedEventsConsumed.WithLabelValues("stored").Inc()
		_ = d.Ack(false)
	case errors.Is(err, errAlreadyStored):
		metrics.FeedEventsConsumed.WithLabelValues("skipped").Inc()
		_ = d.Ack(false)
	case errors.Is(err, errMalformed):
		metrics.FeedEventsConsumed.WithLabelValues("rejected").Inc()
		c.log.Error().Err(err).Str("message_id", d.MessageId).Msg("dropping message")
		_ = d.Nack(false, false)
	default:
		metrics.FeedEventsConsumed.WithLabelValues("failed").Inc()
		c.log.Error().Err(err).Str("message_id", d.MessageId).Bool("redelivered", d.Redelivered).Msg("store feed event failed")
		_ = d.Nack(false, !d.Redelivered)
	}
}

// Handle decodes one message body and stores it.  Events that already
// carry a feed row id return errAlreadyStored.
func (c *FeedConsumer) Handle(ctx context.Context, body []byte) error {
	var ev LikeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: unmarshal: %v", errMalformed, err)
	}
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if ev.EventID != 0 {
		return fmt.Errorf("%w: event %d", errAlreadyStored, ev.EventID)
	}
	if _, err := c.store.Insert(ctx, ev.FeedEvent()); err != nil {
		return fmt.Errorf("insert feed event: %w", err)
	}
	return nil
}

// IsMalformed reports whether err came from an undecodable message.
func IsMalformed(err error) bool { return errors.Is(err, errMalformed) }

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
