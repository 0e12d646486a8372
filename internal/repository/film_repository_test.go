package repository

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/film-catalog/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestFilmCreateRoundTrip(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFilmRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM ratings WHERE id = ?)")).
		WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM genres WHERE id IN (?, ?)")).
		WithArgs(1, 2).WillReturnRows(idRows("id", 1, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO films (name, description, release_date, duration, rating_id)")).
		WithArgs("Playtime", "", released, 124, 3).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM film_genres WHERE film_id = ?")).
		WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO film_genres (film_id, genre_id) VALUES (?, ?), (?, ?)")).
		WithArgs(11, 1, 11, 2).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM film_directors WHERE film_id = ?")).
		WithArgs(11).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.id = ?")).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows(relationColumns).
			AddRow(int64(11), "Playtime", "", released, int64(124), int64(3), "PG-13", int64(1), "Comedy", nil, nil).
			AddRow(int64(11), "Playtime", "", released, int64(124), int64(3), "PG-13", int64(2), "Drama", nil, nil))
	mock.ExpectCommit()

	film, err := repo.Create(context.Background(), model.FilmDraft{
		Name:        ptr("Playtime"),
		ReleaseDate: ptr(released),
		Duration:    ptr(124),
		RatingID:    ptr(uint64(3)),
		GenreIDs:    []uint64{2, 1, 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if film.ID != 11 {
		t.Errorf("id = %d, want 11", film.ID)
	}
	want := []model.Genre{{ID: 1, Name: "Comedy"}, {ID: 2, Name: "Drama"}}
	if !reflect.DeepEqual(film.Genres, want) {
		t.Errorf("genres = %v, want %v", film.Genres, want)
	}
	checkExpectations(t, mock)
}

func TestFilmCreateUnknownGenreRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFilmRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM genres WHERE id IN (?, ?)")).
		WithArgs(1, 8).WillReturnRows(idRows("id", 1))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), model.FilmDraft{
		Name:        ptr("Playtime"),
		ReleaseDate: ptr(released),
		Duration:    ptr(124),
		GenreIDs:    []uint64{1, 8},
	})
	if !errors.Is(err, ErrGenreNotFound) {
		t.Fatalf("expected ErrGenreNotFound, got %v", err)
	}
	checkExpectations(t, mock)
}

func TestFilmCreateUnknownRating(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM ratings WHERE id = ?")).
		WithArgs(77).WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow(false))
	mock.ExpectRollback()

	_, err := NewFilmRepo(db).Create(context.Background(), model.FilmDraft{
		Name:        ptr("Playtime"),
		ReleaseDate: ptr(released),
		Duration:    ptr(124),
		RatingID:    ptr(uint64(77)),
	})
	if !errors.Is(err, ErrRatingNotFound) {
		t.Fatalf("expected ErrRatingNotFound, got %v", err)
	}
	checkExpectations(t, mock)
}

func TestFilmCreateReadbackMissing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO films").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("DELETE FROM film_genres").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM film_directors").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.id = ?")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(relationColumns))
	mock.ExpectRollback()

	_, err := NewFilmRepo(db).Create(context.Background(), model.FilmDraft{
		Name:        ptr("Ghost"),
		ReleaseDate: ptr(released),
		Duration:    ptr(80),
	})
	if !errors.Is(err, ErrReadbackMissing) {
		t.Fatalf("expected ErrReadbackMissing, got %v", err)
	}
	checkExpectations(t, mock)
}

// Replacing {Comedy, Drama} with {Drama} must leave exactly {Drama}.
func TestFilmUpdateReplacesGenreSet(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFilmRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM films WHERE id = ? FOR UPDATE")).
		WithArgs(7).WillReturnRows(idRows("id", 7))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM genres WHERE id IN (?)")).
		WithArgs(2).WillReturnRows(idRows("id", 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM film_genres WHERE film_id = ?")).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO film_genres (film_id, genre_id) VALUES (?, ?)")).
		WithArgs(7, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.id = ?")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(relationColumns).
			AddRow(int64(7), "Heat", "", released, int64(170), nil, nil, int64(2), "Drama", nil, nil))
	mock.ExpectCommit()

	film, err := repo.Update(context.Background(), 7, model.FilmDraft{GenreIDs: []uint64{2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Genre{{ID: 2, Name: "Drama"}}
	if !reflect.DeepEqual(film.Genres, want) {
		t.Errorf("genres = %v, want %v", film.Genres, want)
	}
	checkExpectations(t, mock)
}

func TestFilmUpdateScalarsOnly(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(7).WillReturnRows(idRows("id", 7))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE films SET name = ?, duration = ? WHERE id = ?")).
		WithArgs("Heat (Director's Cut)", 171, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.id = ?")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(relationColumns).
			AddRow(int64(7), "Heat (Director's Cut)", "", released, int64(171), nil, nil, int64(2), "Drama", nil, nil))
	mock.ExpectCommit()

	film, err := NewFilmRepo(db).Update(context.Background(), 7, model.FilmDraft{
		Name:     ptr("Heat (Director's Cut)"),
		Duration: ptr(171),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(film.Genres) != 1 {
		t.Errorf("genres should be untouched, got %v", film.Genres)
	}
	checkExpectations(t, mock)
}

func TestFilmUpdateNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(404).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := NewFilmRepo(db).Update(context.Background(), 404, model.FilmDraft{Name: ptr("x")})
	if !errors.Is(err, ErrFilmNotFound) {
		t.Fatalf("expected ErrFilmNotFound, got %v", err)
	}
	checkExpectations(t, mock)
}

func TestFilmDeleteNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM films WHERE id = ?")).
		WithArgs(9).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewFilmRepo(db).Delete(context.Background(), 9); !errors.Is(err, ErrFilmNotFound) {
		t.Fatalf("expected ErrFilmNotFound, got %v", err)
	}
	checkExpectations(t, mock)
}

func TestFilmGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.id = ?")).
		WithArgs(3).WillReturnRows(sqlmock.NewRows(relationColumns))

	if _, err := NewFilmRepo(db).GetByID(context.Background(), 3); !errors.Is(err, ErrFilmNotFound) {
		t.Fatalf("expected ErrFilmNotFound, got %v", err)
	}
	checkExpectations(t, mock)
}

func TestInTxRollsBackOnPanic(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	func() {
		defer func() {
			if p := recover(); p != "boom" {
				t.Errorf("recovered %v, want boom", p)
			}
		}()
		_ = NewFilmRepo(db).inTx(context.Background(), func(*sqlx.Tx) error { panic("boom") })
	}()
	checkExpectations(t, mock)
}
