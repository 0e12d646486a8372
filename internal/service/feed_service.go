package service

import (
	"context"

	"github.com/iliyamo/film-catalog/internal/model"
	"github.com/iliyamo/film-catalog/internal/repository"
)

// FeedReader lists stored feed events.
type FeedReader interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.FeedEvent, error)
}

// FeedService reads a user's activity feed.
type FeedService struct {
	events FeedReader
	users  Exister
}

func NewFeedService(events FeedReader, users Exister) *FeedService {
	return &FeedService{events: events, users: users}
}

// Feed returns userID's events oldest first.
func (s *FeedService) Feed(ctx context.Context, userID uint64) ([]model.FeedEvent, error) {
	if err := mustExist(ctx, s.users, userID, repository.ErrUserNotFound); err != nil {
		return nil, err
	}
	return s.events.ListByUser(ctx, userID)
}
