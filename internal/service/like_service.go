package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/film-catalog/internal/model"
	"github.com/iliyamo/film-catalog/internal/queue"
	"github.com/iliyamo/film-catalog/internal/repository"
)

// LikeWriter mutates and queries the like relation.
type LikeWriter interface {
	Add(ctx context.Context, filmID, userID uint64) (bool, error)
	Remove(ctx context.Context, filmID, userID uint64) (bool, error)
	Has(ctx context.Context, filmID, userID uint64) (bool, error)
	CountForFilm(ctx context.Context, filmID uint64) (int, error)
}

// Exister checks that an id resolves to a row.
type Exister interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

// FeedWriter appends rows to the event feed.
type FeedWriter interface {
	Insert(ctx context.Context, ev model.FeedEvent) (uint64, error)
}

// EventPublisher fans like events out over the broker.
type EventPublisher interface {
	PublishLike(ctx context.Context, ev queue.LikeEvent) error
}

// LikeService adds and removes likes after checking that both ends exist.
// Every call writes a feed row, including repeated likes, before it
// returns.  The stored event is then published for other subscribers; a
// publish failure is logged and does not fail the call.
type LikeService struct {
	likes  LikeWriter
	films  Exister
	users  Exister
	feed   FeedWriter
	events EventPublisher // may be nil
}

func NewLikeService(likes LikeWriter, films, users Exister, feed FeedWriter, events EventPublisher) *LikeService {
	if likes == nil || films == nil || users == nil || feed == nil {
		panic("nil dependency passed to NewLikeService")
	}
	return &LikeService{likes: likes, films: films, users: users, feed: feed, events: events}
}

// Like records the pair.  added is false when it already existed.
func (s *LikeService) Like(ctx context.Context, filmID, userID uint64) (added bool, err error) {
	if err := s.checkPair(ctx, filmID, userID); err != nil {
		return false, err
	}
	added, err = s.likes.Add(ctx, filmID, userID)
	if err != nil {
		return false, err
	}
	if err := s.record(ctx, filmID, userID, model.OperationAdd); err != nil {
		return false, err
	}
	return added, nil
}

// Unlike removes the pair.  removed is false when there was nothing to remove.
func (s *LikeService) Unlike(ctx context.Context, filmID, userID uint64) (removed bool, err error) {
	if err := s.checkPair(ctx, filmID, userID); err != nil {
		return false, err
	}
	removed, err = s.likes.Remove(ctx, filmID, userID)
	if err != nil {
		return false, err
	}
	if err := s.record(ctx, filmID, userID, model.OperationRemove); err != nil {
		return false, err
	}
	return removed, nil
}

// Liked reports whether userID likes filmID.
func (s *LikeService) Liked(ctx context.Context, filmID, userID uint64) (bool, error) {
	if err := s.checkPair(ctx, filmID, userID); err != nil {
		return false, err
	}
	return s.likes.Has(ctx, filmID, userID)
}

// Count returns the number of users liking filmID.
func (s *LikeService) Count(ctx context.Context, filmID uint64) (int, error) {
	if err := mustExist(ctx, s.films, filmID, repository.ErrFilmNotFound); err != nil {
		return 0, err
	}
	return s.likes.CountForFilm(ctx, filmID)
}

func (s *LikeService) checkPair(ctx context.Context, filmID, userID uint64) error {
	if err := mustExist(ctx, s.films, filmID, repository.ErrFilmNotFound); err != nil {
		return err
	}
	return mustExist(ctx, s.users, userID, repository.ErrUserNotFound)
}

// record stores the feed row and then publishes it.  The row id travels
// with the message so the feed consumer does not store it twice.
func (s *LikeService) record(ctx context.Context, filmID, userID uint64, op string) error {
	ev := queue.LikeEvent{UserID: userID, FilmID: filmID, Operation: op, OccurredAt: time.Now().UTC()}
	id, err := s.feed.Insert(ctx, ev.FeedEvent())
	if err != nil {
		return fmt.Errorf("store feed event: %w", err)
	}
	ev.EventID = id
	if s.events == nil {
		return nil
	}
	if err := s.events.PublishLike(ctx, ev); err != nil {
		log.Warn().Err(err).Uint64("event_id", id).Uint64("film_id", filmID).Uint64("user_id", userID).
			Str("operation", op).Msg("like event not published")
	}
	return nil
}

func mustExist(ctx context.Context, e Exister, id uint64, notFound error) error {
	ok, err := e.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", notFound, id)
	}
	return nil
}
