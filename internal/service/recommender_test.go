package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/iliyamo/film-catalog/internal/repository"
)

func TestRecommendConcreteScenario(t *testing.T) {
	// X=1 likes {1,2,3}, Y=2 likes {2,3,4}.
	store := newMemStore().
		addFilm(1, "a", 2000).addFilm(2, "b", 2000).addFilm(3, "c", 2000).addFilm(4, "d", 2000).
		like(1, 1).like(2, 1, 2).like(3, 1, 2).like(4, 2)

	got, err := NewRecommender(store).Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []uint64{4}; !reflect.DeepEqual(got, want) {
		t.Errorf("recommend(X) = %v, want %v", got, want)
	}
}

func TestRecommendEmptyWithoutOverlap(t *testing.T) {
	store := newMemStore().addFilm(1, "a", 2000).addFilm(2, "b", 2000).like(1, 1).like(2, 2)
	got, err := NewRecommender(store).Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %#v", got)
	}
}

func TestRecommendNeverReturnsOwnLikes(t *testing.T) {
	store := newMemStore()
	for id := uint64(1); id <= 8; id++ {
		store.addFilm(id, "f", 2000)
	}
	store.like(1, 1, 2, 3).like(2, 1, 2).like(3, 2, 3).like(5, 2).like(6, 3).like(7, 2, 3).like(8, 1)

	for _, user := range []uint64{1, 2, 3} {
		got, err := NewRecommender(store).Recommend(context.Background(), user)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		mine, _ := store.LikedFilmIDs(context.Background(), user)
		own := toSet(mine)
		for _, id := range got {
			if _, ok := own[id]; ok {
				t.Errorf("user %d: recommended already liked film %d", user, id)
			}
		}
	}
}

func TestPickNeighbor(t *testing.T) {
	tests := []struct {
		name     string
		overlaps []repository.Overlap
		want     uint64
		found    bool
	}{
		{"none", nil, 0, false},
		{"single", []repository.Overlap{{UserID: 4, Shared: 1}}, 4, true},
		{"largest wins", []repository.Overlap{{UserID: 2, Shared: 1}, {UserID: 9, Shared: 3}}, 9, true},
		{"tie goes to lowest id", []repository.Overlap{{UserID: 9, Shared: 2}, {UserID: 3, Shared: 2}, {UserID: 5, Shared: 2}}, 3, true},
		{"self ignored", []repository.Overlap{{UserID: 1, Shared: 5}, {UserID: 6, Shared: 1}}, 6, true},
		{"zero overlap ignored", []repository.Overlap{{UserID: 2, Shared: 0}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := PickNeighbor(tt.overlaps, 1)
			if got != tt.want || found != tt.found {
				t.Errorf("PickNeighbor = (%d, %v), want (%d, %v)", got, found, tt.want, tt.found)
			}
		})
	}
}
