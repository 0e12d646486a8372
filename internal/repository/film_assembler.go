package repository

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/film-catalog/internal/model"
)

// filmRelationsSQL flattens a film with its rating, genres and directors.
// A film yields one row per (genre, director) combination; a film without
// genres or directors yields a row with NULLs in those columns.
const filmRelationsSQL = `SELECT
		f.id           AS film_id,
		f.name         AS film_name,
		f.description  AS description,
		f.release_date AS release_date,
		f.duration     AS duration,
		r.id           AS rating_id,
		r.name         AS rating_name,
		g.id           AS genre_id,
		g.name         AS genre_name,
		d.id           AS director_id,
		d.name         AS director_name
	FROM films f
	LEFT JOIN ratings r         ON r.id = f.rating_id
	LEFT JOIN film_genres fg    ON fg.film_id = f.id
	LEFT JOIN genres g          ON g.id = fg.genre_id
	LEFT JOIN film_directors fd ON fd.film_id = f.id
	LEFT JOIN directors d       ON d.id = fd.director_id`

// FilmRelationRow is one row of filmRelationsSQL.
type FilmRelationRow struct {
	FilmID       uint64         `db:"film_id"`
	FilmName     string         `db:"film_name"`
	Description  string         `db:"description"`
	ReleaseDate  time.Time      `db:"release_date"`
	Duration     int            `db:"duration"`
	RatingID     sql.NullInt64  `db:"rating_id"`
	RatingName   sql.NullString `db:"rating_name"`
	GenreID      sql.NullInt64  `db:"genre_id"`
	GenreName    sql.NullString `db:"genre_name"`
	DirectorID   sql.NullInt64  `db:"director_id"`
	DirectorName sql.NullString `db:"director_name"`
}

// filmAcc accumulates one film while rows are folded in.
type filmAcc struct {
	film      model.Film
	genres    map[uint64]string
	directors map[uint64]string
}

// AssembleFilms folds flattened join rows into film aggregates.  Films come
// out in the order their id was first seen.  Scalar columns and the rating
// are taken from a film's first row; later rows only contribute genres and
// directors, each kept once per id.  Genres and directors are sorted by id.
func AssembleFilms(rows []FilmRelationRow) []model.Film {
	order := make([]uint64, 0, len(rows))
	byID := make(map[uint64]*filmAcc, len(rows))

	for _, row := range rows {
		acc, ok := byID[row.FilmID]
		if !ok {
			acc = &filmAcc{
				film: model.Film{
					ID:          row.FilmID,
					Name:        row.FilmName,
					Description: row.Description,
					ReleaseDate: model.NewDate(row.ReleaseDate),
					Duration:    row.Duration,
				},
				genres:    map[uint64]string{},
				directors: map[uint64]string{},
			}
			if row.RatingID.Valid {
				acc.film.Rating = &model.Rating{ID: uint64(row.RatingID.Int64), Name: row.RatingName.String}
			}
			byID[row.FilmID] = acc
			order = append(order, row.FilmID)
		}
		if row.GenreID.Valid {
			if _, seen := acc.genres[uint64(row.GenreID.Int64)]; !seen {
				acc.genres[uint64(row.GenreID.Int64)] = row.GenreName.String
			}
		}
		if row.DirectorID.Valid {
			if _, seen := acc.directors[uint64(row.DirectorID.Int64)]; !seen {
				acc.directors[uint64(row.DirectorID.Int64)] = row.DirectorName.String
			}
		}
	}

	out := make([]model.Film, 0, len(order))
	for _, id := range order {
		acc := byID[id]
		f := acc.film
		f.Genres = make([]model.Genre, 0, len(acc.genres))
		for gid, name := range acc.genres {
			f.Genres = append(f.Genres, model.Genre{ID: gid, Name: name})
		}
		sort.Slice(f.Genres, func(i, j int) bool { return f.Genres[i].ID < f.Genres[j].ID })
		f.Directors = make([]model.Director, 0, len(acc.directors))
		for did, name := range acc.directors {
			f.Directors = append(f.Directors, model.Director{ID: did, Name: name})
		}
		sort.Slice(f.Directors, func(i, j int) bool { return f.Directors[i].ID < f.Directors[j].ID })
		out = append(out, f)
	}
	return out
}

// selectFilms runs filmRelationsSQL with the given WHERE/ORDER suffix and
// assembles the result.  q may be the pool or an open transaction.
func selectFilms(ctx context.Context, q sqlx.QueryerContext, suffix string, args ...any) ([]model.Film, error) {
	var rows []FilmRelationRow
	if err := sqlx.SelectContext(ctx, q, &rows, filmRelationsSQL+suffix, args...); err != nil {
		return nil, err
	}
	return AssembleFilms(rows), nil
}

// FindByIDs loads full aggregates for ids, ordered by id ascending.  Ids
// that do not exist are simply absent from the result.  An empty id list
// returns an empty result without touching the database.
func (r *FilmRepo) FindByIDs(ctx context.Context, ids []uint64) ([]model.Film, error) {
	if len(ids) == 0 {
		return []model.Film{}, nil
	}
	query, args, err := sqlx.In(filmRelationsSQL+" WHERE f.id IN (?) ORDER BY f.id, g.id, d.id", ids)
	if err != nil {
		return nil, err
	}
	var rows []FilmRelationRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return AssembleFilms(rows), nil
}

// FilmLoader batch-loads film aggregates by id.
type FilmLoader interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]model.Film, error)
}

// EnrichPreservingOrder replaces each stand-in in base with its full
// aggregate while keeping base's order exactly.  It issues a single
// FindByIDs call, or none when base is empty.  A stand-in whose id the
// loader did not return is kept as is.  Duplicates in base are kept.
func EnrichPreservingOrder(ctx context.Context, loader FilmLoader, base []model.Film) ([]model.Film, error) {
	if len(base) == 0 {
		return []model.Film{}, nil
	}
	ids := make([]uint64, len(base))
	for i, f := range base {
		ids[i] = f.ID
	}
	full, err := loader.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.Film, len(full))
	for _, f := range full {
		byID[f.ID] = f
	}
	out := make([]model.Film, len(base))
	for i, standIn := range base {
		if f, ok := byID[standIn.ID]; ok {
			out[i] = f
			continue
		}
		out[i] = standIn
	}
	return out, nil
}

// EnrichIDs materialises an ordered id list, keeping the order.  Ids the
// loader cannot find come back as bare {ID} stand-ins.
func EnrichIDs(ctx context.Context, loader FilmLoader, ids []uint64) ([]model.Film, error) {
	base := make([]model.Film, len(ids))
	for i, id := range ids {
		base[i] = model.Film{ID: id}
	}
	return EnrichPreservingOrder(ctx, loader, base)
}
