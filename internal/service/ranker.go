package service

import (
	"context"

	"github.com/iliyamo/film-catalog/internal/metrics"
)

// PopularityStore yields every film id in popularity order.
type PopularityStore interface {
	PopularFilmIDs(ctx context.Context) ([]uint64, error)
}

// FilmFilterStore yields the unordered id sets ranking filters use.
type FilmFilterStore interface {
	FilmIDsByGenre(ctx context.Context, genreID uint64) ([]uint64, error)
	FilmIDsByYear(ctx context.Context, year int) ([]uint64, error)
}

// Ranker ranks films by like count.  Filters never re-rank: they keep the
// films of the overall ranking that are in every filter set, in ranking
// order.  count is applied after filtering and count <= 0 yields nothing.
type Ranker struct {
	likes   PopularityStore
	filters FilmFilterStore
}

func NewRanker(likes PopularityStore, filters FilmFilterStore) *Ranker {
	if likes == nil || filters == nil {
		panic("nil dependency passed to NewRanker")
	}
	return &Ranker{likes: likes, filters: filters}
}

// Rank returns up to count film ids, most liked first, ties by id.
func (r *Ranker) Rank(ctx context.Context, count int) ([]uint64, error) {
	return r.rank(ctx, count, nil, nil)
}

// RankByGenre ranks only films carrying genreID.
func (r *Ranker) RankByGenre(ctx context.Context, genreID uint64, count int) ([]uint64, error) {
	return r.rank(ctx, count, &genreID, nil)
}

// RankByYear ranks only films released in year.
func (r *Ranker) RankByYear(ctx context.Context, year, count int) ([]uint64, error) {
	return r.rank(ctx, count, nil, &year)
}

// RankByGenreAndYear ranks films matching both filters.
func (r *Ranker) RankByGenreAndYear(ctx context.Context, genreID uint64, year, count int) ([]uint64, error) {
	return r.rank(ctx, count, &genreID, &year)
}

// Popular dispatches on whichever of genreID and year is set.
func (r *Ranker) Popular(ctx context.Context, count int, genreID *uint64, year *int) ([]uint64, error) {
	return r.rank(ctx, count, genreID, year)
}

func (r *Ranker) rank(ctx context.Context, count int, genreID *uint64, year *int) ([]uint64, error) {
	metrics.RecordRanking(genreID != nil, year != nil)
	if count <= 0 {
		return []uint64{}, nil
	}

	var sets []map[uint64]struct{}
	if genreID != nil {
		ids, err := r.filters.FilmIDsByGenre(ctx, *genreID)
		if err != nil {
			return nil, err
		}
		sets = append(sets, toSet(ids))
	}
	if year != nil {
		ids, err := r.filters.FilmIDsByYear(ctx, *year)
		if err != nil {
			return nil, err
		}
		sets = append(sets, toSet(ids))
	}

	ranked, err := r.likes.PopularFilmIDs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]uint64, 0, min(count, len(ranked)))
	seen := make(map[uint64]struct{}, len(ranked))
	for _, id := range ranked {
		if len(out) == count {
			break
		}
		if _, dup := seen[id]; dup || !inAll(sets, id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func toSet(ids []uint64) map[uint64]struct{} {
	s := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func inAll(sets []map[uint64]struct{}, id uint64) bool {
	for _, s := range sets {
		if _, ok := s[id]; !ok {
			return false
		}
	}
	return true
}
