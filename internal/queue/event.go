// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into feed entries.
package queue

import (
	"errors"
	"time"

	"github.com/iliyamo/film-catalog/internal/model"
)

// LikeEvent is published whenever a user likes or unlikes a film.  EventID
// is the feed row the producer already wrote; the feed consumer stores
// events without one as a LIKE event in the user's feed.
type LikeEvent struct {
	EventID    uint64    `json:"event_id,omitempty"`
	UserID     uint64    `json:"user_id"`
	FilmID     uint64    `json:"film_id"`
	Operation  string    `json:"operation"` // ADD or REMOVE
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate rejects payloads the feed cannot store.
func (e LikeEvent) Validate() error {
	if e.UserID == 0 || e.FilmID == 0 {
		return errors.New("like event: user_id and film_id are required")
	}
	if e.Operation != model.OperationAdd && e.Operation != model.OperationRemove {
		return errors.New("like event: operation must be ADD or REMOVE")
	}
	return nil
}

// FeedEvent converts e into a feed row.  A missing timestamp becomes now.
func (e LikeEvent) FeedEvent() model.FeedEvent {
	at := e.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	return model.FeedEvent{
		UserID:    e.UserID,
		EntityID:  e.FilmID,
		EventType: model.EventLike,
		Operation: e.Operation,
		CreatedAt: at.UTC(),
	}
}
