package model

import (
	"encoding/json"
	"time"
)

// Feed event types and operations.
const (
	EventLike = "LIKE"

	OperationAdd    = "ADD"
	OperationRemove = "REMOVE"
)

// FeedEvent is one entry of a user's activity feed (`feed_events`).  On the
// wire the timestamp is epoch milliseconds.
type FeedEvent struct {
	ID        uint64    `json:"eventId" db:"id"`
	UserID    uint64    `json:"userId" db:"user_id"`
	EntityID  uint64    `json:"entityId" db:"entity_id"`
	EventType string    `json:"eventType" db:"event_type"`
	Operation string    `json:"operation" db:"operation"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

type feedEventJSON struct {
	ID        uint64 `json:"eventId"`
	UserID    uint64 `json:"userId"`
	EntityID  uint64 `json:"entityId"`
	EventType string `json:"eventType"`
	Operation string `json:"operation"`
	Timestamp int64  `json:"timestamp"`
}

func (e FeedEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(feedEventJSON{
		ID:        e.ID,
		UserID:    e.UserID,
		EntityID:  e.EntityID,
		EventType: e.EventType,
		Operation: e.Operation,
		Timestamp: e.CreatedAt.UnixMilli(),
	})
}

func (e *FeedEvent) UnmarshalJSON(b []byte) error {
	var v feedEventJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*e = FeedEvent{
		ID:        v.ID,
		UserID:    v.UserID,
		EntityID:  v.EntityID,
		EventType: v.EventType,
		Operation: v.Operation,
		CreatedAt: time.UnixMilli(v.Timestamp).UTC(),
	}
	return nil
}
