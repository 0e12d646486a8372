package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/film-catalog/internal/model"
)

// EventRepo persists the user activity feed.
type EventRepo struct{ db *sqlx.DB }

func NewEventRepo(db *sqlx.DB) *EventRepo { return &EventRepo{db: db} }

// Insert appends ev to the feed and returns its id.
func (r *EventRepo) Insert(ctx context.Context, ev model.FeedEvent) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO feed_events (user_id, entity_id, event_type, operation, created_at) VALUES (?, ?, ?, ?, ?)",
		ev.UserID, ev.EntityID, ev.EventType, ev.Operation, ev.CreatedAt.UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns userID's feed in insertion order.
func (r *EventRepo) ListByUser(ctx context.Context, userID uint64) ([]model.FeedEvent, error) {
	out := []model.FeedEvent{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, user_id, entity_id, event_type, operation, created_at
		 FROM feed_events WHERE user_id = ? ORDER BY id`, userID)
	return out, err
}
