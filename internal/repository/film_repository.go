package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/film-catalog/internal/model"
)

// FilmRepo encapsulates all database queries related to films and their
// genre/director associations.
type FilmRepo struct {
	db *sqlx.DB
}

// NewFilmRepo constructs a FilmRepo with the provided DB handle.
func NewFilmRepo(db *sqlx.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

// GetByID returns the full aggregate of a film or ErrFilmNotFound.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	films, err := selectFilms(ctx, r.db, " WHERE f.id = ? ORDER BY g.id, d.id", id)
	if err != nil {
		return model.Film{}, err
	}
	if len(films) == 0 {
		return model.Film{}, fmt.Errorf("%w: %d", ErrFilmNotFound, id)
	}
	return films[0], nil
}

// List returns every film ordered by id.
func (r *FilmRepo) List(ctx context.Context) ([]model.Film, error) {
	return selectFilms(ctx, r.db, " ORDER BY f.id, g.id, d.id")
}

// Exists reports whether a film row with the given id exists.
func (r *FilmRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, "SELECT EXISTS(SELECT 1 FROM films WHERE id = ?)", id)
	return ok, err
}

// Create inserts a film with its genre and director sets and returns the
// stored aggregate.  Rating, genre and director references are verified
// first; the whole write and the readback run in one transaction.
func (r *FilmRepo) Create(ctx context.Context, d model.FilmDraft) (model.Film, error) {
	if d.Name == nil || d.ReleaseDate == nil || d.Duration == nil {
		return model.Film{}, errors.New("film draft: name, release date and duration are required")
	}
	var out model.Film
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := checkReferences(ctx, tx, d.RatingID, d.GenreIDs, d.DirectorIDs); err != nil {
			return err
		}
		var rating any
		if d.RatingID != nil {
			rating = *d.RatingID
		}
		const qInsert = "INSERT INTO films (name, description, release_date, duration, rating_id) VALUES (?, ?, ?, ?, ?)"
		res, err := tx.ExecContext(ctx, qInsert, *d.Name, deref(d.Description), *d.ReleaseDate, *d.Duration, rating)
		if err != nil {
			return err
		}
		lastID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		id := uint64(lastID)
		if err := replaceGenres(ctx, tx, id, d.GenreIDs); err != nil {
			return err
		}
		if err := replaceDirectors(ctx, tx, id, d.DirectorIDs); err != nil {
			return err
		}
		out, err = readback(ctx, tx, id)
		return err
	})
	return out, err
}

// Update applies a partial update.  Nil scalar fields keep the stored
// value; a non-nil GenreIDs or DirectorIDs replaces that set entirely.
func (r *FilmRepo) Update(ctx context.Context, id uint64, d model.FilmDraft) (model.Film, error) {
	var out model.Film
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var locked uint64
		if err := tx.GetContext(ctx, &locked, "SELECT id FROM films WHERE id = ? FOR UPDATE", id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %d", ErrFilmNotFound, id)
			}
			return err
		}
		if err := checkReferences(ctx, tx, d.RatingID, d.GenreIDs, d.DirectorIDs); err != nil {
			return err
		}

		set := []string{}
		args := []any{}
		if d.Name != nil {
			set = append(set, "name = ?")
			args = append(args, *d.Name)
		}
		if d.Description != nil {
			set = append(set, "description = ?")
			args = append(args, *d.Description)
		}
		if d.ReleaseDate != nil {
			set = append(set, "release_date = ?")
			args = append(args, *d.ReleaseDate)
		}
		if d.Duration != nil {
			set = append(set, "duration = ?")
			args = append(args, *d.Duration)
		}
		if d.RatingID != nil {
			set = append(set, "rating_id = ?")
			args = append(args, *d.RatingID)
		}
		if len(set) > 0 {
			args = append(args, id)
			if _, err := tx.ExecContext(ctx, "UPDATE films SET "+strings.Join(set, ", ")+" WHERE id = ?", args...); err != nil {
				return err
			}
		}
		if d.GenreIDs != nil {
			if err := replaceGenres(ctx, tx, id, d.GenreIDs); err != nil {
				return err
			}
		}
		if d.DirectorIDs != nil {
			if err := replaceDirectors(ctx, tx, id, d.DirectorIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = readback(ctx, tx, id)
		return err
	})
	return out, err
}

// Delete removes a film.  Genre, director and like rows go with it through
// ON DELETE CASCADE.
func (r *FilmRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM films WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrFilmNotFound, id)
	}
	return nil
}

// inTx runs fn inside a transaction, committing when fn succeeds and
// rolling back otherwise.  A panic in fn rolls back and is re-raised.
func (r *FilmRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

// readback reloads a just-written film inside the writing transaction.
func readback(ctx context.Context, tx *sqlx.Tx, id uint64) (model.Film, error) {
	films, err := selectFilms(ctx, tx, " WHERE f.id = ? ORDER BY g.id, d.id", id)
	if err != nil {
		return model.Film{}, err
	}
	if len(films) == 0 {
		return model.Film{}, fmt.Errorf("%w: film %d", ErrReadbackMissing, id)
	}
	return films[0], nil
}

// checkReferences verifies that the rating and every genre and director id
// exist.  Nil arguments are not checked.
func checkReferences(ctx context.Context, tx *sqlx.Tx, ratingID *uint64, genreIDs, directorIDs []uint64) error {
	if ratingID != nil {
		var ok bool
		if err := tx.GetContext(ctx, &ok, "SELECT EXISTS(SELECT 1 FROM ratings WHERE id = ?)", *ratingID); err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrRatingNotFound, *ratingID)
		}
	}
	if err := checkAllExist(ctx, tx, "genres", genreIDs, ErrGenreNotFound); err != nil {
		return err
	}
	return checkAllExist(ctx, tx, "directors", directorIDs, ErrDirectorNotFound)
}

// checkAllExist returns notFound wrapped with the first id of ids that is
// missing from table.  table is always a package constant.
func checkAllExist(ctx context.Context, tx *sqlx.Tx, table string, ids []uint64, notFound error) error {
	ids = uniqueSorted(ids)
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("SELECT id FROM "+table+" WHERE id IN (?)", ids)
	if err != nil {
		return err
	}
	var found []uint64
	if err := tx.SelectContext(ctx, &found, tx.Rebind(query), args...); err != nil {
		return err
	}
	have := make(map[uint64]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			return fmt.Errorf("%w: %d", notFound, id)
		}
	}
	return nil
}

func replaceGenres(ctx context.Context, tx *sqlx.Tx, filmID uint64, ids []uint64) error {
	return replaceLinks(ctx, tx, "film_genres", "genre_id", filmID, ids)
}

func replaceDirectors(ctx context.Context, tx *sqlx.Tx, filmID uint64, ids []uint64) error {
	return replaceLinks(ctx, tx, "film_directors", "director_id", filmID, ids)
}

// replaceLinks swaps a film's association set: delete everything, then
// insert the deduplicated ids in one multi-row INSERT.
func replaceLinks(ctx context.Context, tx *sqlx.Tx, table, column string, filmID uint64, ids []uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE film_id = ?", filmID); err != nil {
		return err
	}
	ids = uniqueSorted(ids)
	if len(ids) == 0 {
		return nil
	}
	valueStrings := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		valueStrings = append(valueStrings, "(?, ?)")
		args = append(args, filmID, id)
	}
	query := "INSERT INTO " + table + " (film_id, " + column + ") VALUES " + strings.Join(valueStrings, ", ")
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func uniqueSorted(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
