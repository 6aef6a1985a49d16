package kafka

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// OutboxEvent rows are written in the same transaction as the domain change
// and drained to Kafka by the producer worker.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

type OutboxRepository interface {
	WithTx(tx *gorm.DB) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *gorm.DB) OutboxRepository {
	return &outboxRepository{db: tx}
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO outbox_events (
			id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, now())
	`,
		event.ID, event.RequestID, event.AggregateType,
		event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
	).Error
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	var rows []OutboxEvent
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id::text,
			COALESCE(request_id, '') AS request_id,
			aggregate_type,
			aggregate_id::text,
			event_type,
			topic,
			payload,
			status,
			retry_count,
			COALESCE(next_retry_at, created_at) AS next_retry_at
		FROM outbox_events
		WHERE status = ?
		  AND COALESCE(next_retry_at, created_at) <= now()
		ORDER BY created_at
		LIMIT ?
	`, OutboxStatusPending, limit).Scan(&rows).Error
	return rows, err
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE outbox_events
		SET status = ?, sent_at = now()
		WHERE id = ?
	`, OutboxStatusSent, id).Error
}

// MarkFailed schedules a retry with linear backoff; the event stays pending
// until the retry budget is spent.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE outbox_events
		SET status = CASE WHEN retry_count >= 5 THEN ? ELSE ? END,
		    retry_count = retry_count + 1,
		    last_error = ?,
		    next_retry_at = now() + (interval '30 seconds' * (retry_count + 1))
		WHERE id = ?
	`, OutboxStatusFailed, OutboxStatusPending, reason, id).Error
}
