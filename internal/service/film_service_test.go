package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/film-catalog/internal/model"
	"github.com/iliyamo/film-catalog/internal/repository"
)

func newFilmService(store *memStore, users, directors idSet) *FilmService {
	return NewFilmService(store, users, directors,
		NewRanker(store, store), NewSearcher(store), NewRecommender(store))
}

func ptr[T any](v T) *T { return &v }

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name  string
		draft model.FilmDraft
		field string
	}{
		{"ok partial", model.FilmDraft{Duration: ptr(1)}, ""},
		{"blank name", model.FilmDraft{Name: ptr("  ")}, "name"},
		{"long description", model.FilmDraft{Description: ptr(strings.Repeat("é", 201))}, "description"},
		{"description at limit", model.FilmDraft{Description: ptr(strings.Repeat("é", 200))}, ""},
		{"too early", model.FilmDraft{ReleaseDate: ptr(time.Date(1895, 12, 27, 0, 0, 0, 0, time.UTC))}, "releaseDate"},
		{"first screening", model.FilmDraft{ReleaseDate: ptr(model.EarliestReleaseDate)}, ""},
		{"zero duration", model.FilmDraft{Duration: ptr(0)}, "duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraft(tt.draft)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestCreateRequiresCoreFields(t *testing.T) {
	svc := newFilmService(newMemStore(), idSet{}, idSet{})
	var ve *ValidationError
	if _, err := svc.Create(context.Background(), model.FilmDraft{Name: ptr("x")}); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPopularMaterialisesInRankOrder(t *testing.T) {
	store := newMemStore().
		addFilm(1, "A", 2000).addFilm(2, "B", 2000).addFilm(3, "C", 2000).
		like(3, 1, 2).like(1, 1)
	svc := newFilmService(store, idSet{}, idSet{})

	films, err := svc.Popular(context.Background(), 10, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, f := range films {
		names = append(names, f.Name)
	}
	if got := strings.Join(names, ","); got != "C,A,B" {
		t.Errorf("order = %s, want C,A,B", got)
	}
	if store.findCalls != 1 {
		t.Errorf("expected one batch load, got %d", store.findCalls)
	}
}

func TestPopularZeroCountSkipsLoad(t *testing.T) {
	store := newMemStore().addFilm(1, "A", 2000)
	films, err := newFilmService(store, idSet{}, idSet{}).Popular(context.Background(), 0, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(films) != 0 || store.findCalls != 0 {
		t.Errorf("films=%v findCalls=%d", films, store.findCalls)
	}
}

func TestByDirector(t *testing.T) {
	store := newMemStore().
		addFilm(1, "Late", 2010).addFilm(2, "Early", 1990).addFilm(3, "Mid", 2000).
		addDirector(1, 7, "Varda").addDirector(2, 7, "Varda").addDirector(3, 7, "Varda").
		like(1, 1, 2).like(3, 1)
	svc := newFilmService(store, idSet{}, idSet{7: true})
	ctx := context.Background()

	tests := []struct {
		sortBy string
		want   string
	}{
		{"year", "Early,Mid,Late"},
		{"LIKES", "Late,Mid,Early"},
	}
	for _, tt := range tests {
		films, err := svc.ByDirector(ctx, 7, tt.sortBy)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.sortBy, err)
		}
		var names []string
		for _, f := range films {
			names = append(names, f.Name)
		}
		if got := strings.Join(names, ","); got != tt.want {
			t.Errorf("sortBy=%s: got %s, want %s", tt.sortBy, got, tt.want)
		}
	}

	var ve *ValidationError
	if _, err := svc.ByDirector(ctx, 7, "rating"); !errors.As(err, &ve) {
		t.Errorf("expected validation error for unknown sort, got %v", err)
	}
	if _, err := svc.ByDirector(ctx, 8, "year"); !errors.Is(err, repository.ErrDirectorNotFound) {
		t.Errorf("expected ErrDirectorNotFound, got %v", err)
	}
}

func TestRecommendAndCommonRequireUsers(t *testing.T) {
	svc := newFilmService(newMemStore(), idSet{1: true}, idSet{})
	ctx := context.Background()

	if _, err := svc.Recommend(ctx, 2); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Recommend: expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Common(ctx, 1, 2); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Common: expected ErrUserNotFound, got %v", err)
	}
}

func TestCommon(t *testing.T) {
	store := newMemStore().
		addFilm(1, "A", 2000).addFilm(2, "B", 2000).addFilm(3, "C", 2000).
		like(1, 1, 2).like(2, 1, 2, 3).like(3, 1)
	films, err := newFilmService(store, idSet{1: true, 2: true}, idSet{}).Common(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(films) != 2 || films[0].ID != 2 || films[1].ID != 1 {
		t.Errorf("common = %v", films)
	}
}
