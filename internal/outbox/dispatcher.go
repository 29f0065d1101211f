// Package outbox delivers activity events recorded in Postgres to Kafka.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"

	"github.com/labj86/calorie-tracker/internal/logger"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Dispatcher drains the outbox table and publishes events to Kafka.
type Dispatcher struct {
	pool             *pgxpool.Pool
	producer         messageWriter
	logger           *logger.Logger
	pollInterval     time.Duration
	batchSize        int
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(pool *pgxpool.Pool, producer messageWriter, log *logger.Logger, pollInterval time.Duration, batchSize int) *Dispatcher {
	return &Dispatcher{
		pool:             pool,
		producer:         producer,
		logger:           log.With("component", "outbox"),
		pollInterval:     pollInterval,
		batchSize:        batchSize,
		shutdownComplete: make(chan struct{}),
	}
}

// Start launches the polling loop. It should be called in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		if err := d.processBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("outbox dispatcher error", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait waits until dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

func (d *Dispatcher) processBatch(ctx context.Context) error {
	start := time.Now()

	messages, err := d.fetchAndClaim(ctx)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}
	defer batchDuration.Observe(time.Since(start).Seconds())

	if err := d.deliver(ctx, messages); err != nil {
		d.logger.Warn("outbox delivery failed, will retry", "events", len(messages), "error", err)
		failedCounter.Add(float64(len(messages)))
		return d.release(ctx, messages, err.Error())
	}

	deliveredCounter.Add(float64(len(messages)))
	return d.markPublished(ctx, messages)
}

// claimQuery locks the oldest unpublished rows that no live dispatcher holds.
// A claim older than a minute is treated as abandoned by a crashed dispatcher.
const claimQuery = `SELECT event_id, tenant_id, user_id, aggregate_id, event_type, topic, partition_key, payload
        FROM outbox
        WHERE published_at IS NULL
          AND (claimed_at IS NULL OR claimed_at < NOW() - interval '1 minute')
        ORDER BY event_id
        LIMIT $1
        FOR UPDATE SKIP LOCKED`

func (d *Dispatcher) fetchAndClaim(ctx context.Context) ([]Message, error) {
	var claimed []Message
	err := pgx.BeginTxFunc(ctx, d.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, claimQuery, d.batchSize)
		if err != nil {
			return err
		}
		claimed, err = pgx.CollectRows(rows, pgx.RowToStructByPos[Message])
		if err != nil || len(claimed) == 0 {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE outbox SET claimed_at = NOW() WHERE event_id = ANY($1)`, eventIDs(claimed))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("claim outbox batch: %w", err)
	}
	return claimed, nil
}

func (d *Dispatcher) deliver(ctx context.Context, messages []Message) error {
	for topic, batch := range groupByTopic(messages, time.Now().UTC()) {
		if err := d.producer.WriteMessages(ctx, topic, batch...); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) markPublished(ctx context.Context, messages []Message) error {
	_, err := d.pool.Exec(ctx, `UPDATE outbox SET published_at = NOW(), attempts = attempts + 1 WHERE event_id = ANY($1)`, eventIDs(messages))
	return err
}

// release unclaims the events so the next poll retries them.
func (d *Dispatcher) release(ctx context.Context, messages []Message, reason string) error {
	_, err := d.pool.Exec(ctx, `UPDATE outbox SET claimed_at = NULL, attempts = attempts + 1, last_error = $2 WHERE event_id = ANY($1)`, eventIDs(messages), reason)
	return err
}

// Message represents a row fetched from outbox. Field order matches claimQuery.
type Message struct {
	EventID      int64
	TenantID     string
	UserID       string
	AggregateID  string
	EventType    string
	Topic        string
	PartitionKey string
	Payload      json.RawMessage
}

// groupByTopic converts outbox rows to Kafka records, preserving row order per topic.
func groupByTopic(messages []Message, now time.Time) map[string][]kafka.Message {
	batches := make(map[string][]kafka.Message)
	for _, msg := range messages {
		batches[msg.Topic] = append(batches[msg.Topic], kafka.Message{
			Key:   []byte(msg.PartitionKey),
			Value: []byte(msg.Payload),
			Time:  now,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(msg.EventType)},
				{Key: "tenant_id", Value: []byte(msg.TenantID)},
				{Key: "user_id", Value: []byte(msg.UserID)},
			},
		})
	}
	return batches
}

func eventIDs(messages []Message) []int64 {
	ids := make([]int64, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.EventID)
	}
	return ids
}
