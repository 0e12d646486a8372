package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/iliyamo/film-catalog/internal/metrics"
	"github.com/iliyamo/film-catalog/internal/model"
	"github.com/iliyamo/film-catalog/internal/repository"
)

// FilmStore is the film persistence FilmService needs.
type FilmStore interface {
	repository.FilmLoader
	GetByID(ctx context.Context, id uint64) (model.Film, error)
	List(ctx context.Context) ([]model.Film, error)
	Create(ctx context.Context, d model.FilmDraft) (model.Film, error)
	Update(ctx context.Context, id uint64, d model.FilmDraft) (model.Film, error)
	Delete(ctx context.Context, id uint64) error
	DirectorFilmIDs(ctx context.Context, directorID uint64, byLikes bool) ([]uint64, error)
	CommonFilmIDs(ctx context.Context, userID, friendID uint64) ([]uint64, error)
}

// Director film orderings accepted by ByDirector.
const (
	SortByYear  = "year"
	SortByLikes = "likes"
)

// FilmService serves film reads and writes.  Ranked reads produce an
// ordered id list first and then load the aggregates in that order.
type FilmService struct {
	films       FilmStore
	users       Exister
	directors   Exister
	ranker      *Ranker
	searcher    *Searcher
	recommender *Recommender
}

func NewFilmService(films FilmStore, users, directors Exister, ranker *Ranker, searcher *Searcher, recommender *Recommender) *FilmService {
	if films == nil || users == nil || directors == nil || ranker == nil || searcher == nil || recommender == nil {
		panic("nil dependency passed to NewFilmService")
	}
	return &FilmService{
		films:       films,
		users:       users,
		directors:   directors,
		ranker:      ranker,
		searcher:    searcher,
		recommender: recommender,
	}
}

func (s *FilmService) Get(ctx context.Context, id uint64) (model.Film, error) {
	return s.films.GetByID(ctx, id)
}

func (s *FilmService) List(ctx context.Context) ([]model.Film, error) {
	return s.films.List(ctx)
}

// Create validates d as a complete film and stores it.
func (s *FilmService) Create(ctx context.Context, d model.FilmDraft) (model.Film, error) {
	if d.Name == nil {
		return model.Film{}, invalid("name", "is required")
	}
	if d.ReleaseDate == nil {
		return model.Film{}, invalid("releaseDate", "is required")
	}
	if d.Duration == nil {
		return model.Film{}, invalid("duration", "is required")
	}
	if err := ValidateDraft(d); err != nil {
		return model.Film{}, err
	}
	return s.films.Create(ctx, d)
}

// Update applies the non-nil fields of d to film id.
func (s *FilmService) Update(ctx context.Context, id uint64, d model.FilmDraft) (model.Film, error) {
	if err := ValidateDraft(d); err != nil {
		return model.Film{}, err
	}
	return s.films.Update(ctx, id, d)
}

func (s *FilmService) Delete(ctx context.Context, id uint64) error {
	return s.films.Delete(ctx, id)
}

// ValidateDraft checks the fields of d that are set.
func ValidateDraft(d model.FilmDraft) error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return invalid("name", "must not be blank")
	}
	if d.Description != nil && utf8.RuneCountInString(*d.Description) > model.MaxDescriptionLen {
		return invalid("description", "must be at most %d characters", model.MaxDescriptionLen)
	}
	if d.ReleaseDate != nil && d.ReleaseDate.Before(model.EarliestReleaseDate) {
		return invalid("releaseDate", "must not be before %s", model.EarliestReleaseDate.Format(model.DateLayout))
	}
	if d.Duration != nil && *d.Duration <= 0 {
		return invalid("duration", "must be positive")
	}
	return nil
}

// Popular returns the count most liked films, optionally restricted to a
// genre and/or release year.
func (s *FilmService) Popular(ctx context.Context, count int, genreID *uint64, year *int) ([]model.Film, error) {
	ids, err := s.ranker.Popular(ctx, count, genreID, year)
	if err != nil {
		return nil, err
	}
	return s.materialise(ctx, ids)
}

// Search finds films by title and/or director name, most liked first.
func (s *FilmService) Search(ctx context.Context, query, by string) ([]model.Film, error) {
	ids, err := s.searcher.SearchRaw(ctx, query, by)
	if err != nil {
		return nil, err
	}
	return s.materialise(ctx, ids)
}

// ByDirector lists a director's films sorted by release year or likes.
func (s *FilmService) ByDirector(ctx context.Context, directorID uint64, sortBy string) ([]model.Film, error) {
	var byLikes bool
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case SortByYear:
	case SortByLikes:
		byLikes = true
	default:
		return nil, invalid("sortBy", "must be %q or %q, got %q", SortByYear, SortByLikes, sortBy)
	}
	if err := mustExist(ctx, s.directors, directorID, repository.ErrDirectorNotFound); err != nil {
		return nil, err
	}
	ids, err := s.films.DirectorFilmIDs(ctx, directorID, byLikes)
	if err != nil {
		return nil, err
	}
	return s.materialise(ctx, ids)
}

// Common returns the films both users like, most liked first.
func (s *FilmService) Common(ctx context.Context, userID, friendID uint64) ([]model.Film, error) {
	if err := mustExist(ctx, s.users, userID, repository.ErrUserNotFound); err != nil {
		return nil, err
	}
	if err := mustExist(ctx, s.users, friendID, repository.ErrUserNotFound); err != nil {
		return nil, err
	}
	ids, err := s.films.CommonFilmIDs(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	return s.materialise(ctx, ids)
}

// Recommend returns films recommended to userID.
func (s *FilmService) Recommend(ctx context.Context, userID uint64) ([]model.Film, error) {
	if err := mustExist(ctx, s.users, userID, repository.ErrUserNotFound); err != nil {
		return nil, err
	}
	ids, err := s.recommender.Recommend(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.materialise(ctx, ids)
}

func (s *FilmService) materialise(ctx context.Context, ids []uint64) ([]model.Film, error) {
	if len(ids) > 0 {
		metrics.EnrichBatchSize.Observe(float64(len(ids)))
	}
	return repository.EnrichIDs(ctx, s.films, ids)
}
