package service

import (
	"context"
	"sort"

	"github.com/iliyamo/film-catalog/internal/metrics"
	"github.com/iliyamo/film-catalog/internal/repository"
)

// LikeReader exposes the like data recommendations are computed from.
type LikeReader interface {
	LikedFilmIDs(ctx context.Context, userID uint64) ([]uint64, error)
	Overlaps(ctx context.Context, userID uint64) ([]repository.Overlap, error)
}

// Recommender is a single-neighbor collaborative filter.  The neighbor is
// the other user sharing the most liked films with the target (lowest user
// id on ties); the recommendation is every film the neighbor likes that the
// target does not, by id ascending.
type Recommender struct {
	likes LikeReader
}

func NewRecommender(likes LikeReader) *Recommender {
	if likes == nil {
		panic("nil LikeReader")
	}
	return &Recommender{likes: likes}
}

// Recommend returns film ids for userID, or an empty list when no other
// user shares a like with them.
func (r *Recommender) Recommend(ctx context.Context, userID uint64) ([]uint64, error) {
	overlaps, err := r.likes.Overlaps(ctx, userID)
	if err != nil {
		return nil, err
	}
	neighbor, ok := PickNeighbor(overlaps, userID)
	if !ok {
		metrics.RecordRecommendation(0)
		return []uint64{}, nil
	}

	mine, err := r.likes.LikedFilmIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	theirs, err := r.likes.LikedFilmIDs(ctx, neighbor)
	if err != nil {
		return nil, err
	}

	liked := toSet(mine)
	out := []uint64{}
	seen := make(map[uint64]struct{}, len(theirs))
	for _, id := range theirs {
		if _, ok := liked[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	metrics.RecordRecommendation(len(out))
	return out, nil
}

// PickNeighbor returns the user with the largest positive overlap,
// preferring the lowest user id on ties.  self is never picked.
func PickNeighbor(overlaps []repository.Overlap, self uint64) (uint64, bool) {
	var best repository.Overlap
	found := false
	for _, o := range overlaps {
		if o.UserID == self || o.Shared <= 0 {
			continue
		}
		if !found || o.Shared > best.Shared || (o.Shared == best.Shared && o.UserID < best.UserID) {
			best = o
			found = true
		}
	}
	return best.UserID, found
}
