package repository

import (
	"context"
	"errors"
	"strings"
	"time"
)

// likeCountsJoin attaches each film's like count as lc.likes (NULL when the
// film has none).  Counting in a derived table keeps other joins from
// multiplying the count.
const likeCountsJoin = ` LEFT JOIN (SELECT film_id, COUNT(*) AS likes FROM likes GROUP BY film_id) lc ON lc.film_id = f.id`

// byPopularity orders by like count, most liked first, then by id.
const byPopularity = ` ORDER BY COALESCE(lc.likes, 0) DESC, f.id ASC`

// FilmIDsByGenre returns the ids of films carrying genreID, ascending.
func (r *FilmRepo) FilmIDsByGenre(ctx context.Context, genreID uint64) ([]uint64, error) {
	ids := []uint64{}
	err := r.db.SelectContext(ctx, &ids,
		"SELECT film_id FROM film_genres WHERE genre_id = ? ORDER BY film_id", genreID)
	return ids, err
}

// FilmIDsByYear returns the ids of films released in the given calendar
// year, ascending.  A date range keeps the release_date index usable.
func (r *FilmRepo) FilmIDsByYear(ctx context.Context, year int) ([]uint64, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	ids := []uint64{}
	err := r.db.SelectContext(ctx, &ids,
		"SELECT id FROM films WHERE release_date >= ? AND release_date < ? ORDER BY id", from, to)
	return ids, err
}

var errNoSearchField = errors.New("search: neither title nor director selected")

// SearchIDs returns ids of films whose title (byTitle) or any director's
// name (byDirector) contains query, case-insensitively.  With both flags a
// film matching either way is returned once.  Results are ordered by like
// count descending, then id.  LIKE metacharacters in query match literally.
func (r *FilmRepo) SearchIDs(ctx context.Context, query string, byTitle, byDirector bool) ([]uint64, error) {
	if !byTitle && !byDirector {
		return nil, errNoSearchField
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	where := []string{}
	args := []any{}
	if byTitle {
		where = append(where, "LOWER(f.name) LIKE ?")
		args = append(args, pattern)
	}
	if byDirector {
		where = append(where, `EXISTS (SELECT 1 FROM film_directors fd
			JOIN directors d ON d.id = fd.director_id
			WHERE fd.film_id = f.id AND LOWER(d.name) LIKE ?)`)
		args = append(args, pattern)
	}

	q := "SELECT f.id FROM films f" + likeCountsJoin +
		" WHERE " + strings.Join(where, " OR ") + byPopularity
	ids := []uint64{}
	err := r.db.SelectContext(ctx, &ids, q, args...)
	return ids, err
}

// DirectorFilmIDs lists the films of a director either by release date
// (oldest first) or by like count (most liked first).  Ties go to the
// lower id.
func (r *FilmRepo) DirectorFilmIDs(ctx context.Context, directorID uint64, byLikes bool) ([]uint64, error) {
	order := " ORDER BY f.release_date ASC, f.id ASC"
	if byLikes {
		order = byPopularity
	}
	q := "SELECT f.id FROM films f JOIN film_directors fd ON fd.film_id = f.id" + likeCountsJoin +
		" WHERE fd.director_id = ?" + order
	ids := []uint64{}
	err := r.db.SelectContext(ctx, &ids, q, directorID)
	return ids, err
}

// CommonFilmIDs returns the films liked by both users, most liked first.
func (r *FilmRepo) CommonFilmIDs(ctx context.Context, userID, friendID uint64) ([]uint64, error) {
	q := `SELECT f.id FROM films f
		JOIN likes mine   ON mine.film_id = f.id AND mine.user_id = ?
		JOIN likes theirs ON theirs.film_id = f.id AND theirs.user_id = ?` + likeCountsJoin + byPopularity
	ids := []uint64{}
	err := r.db.SelectContext(ctx, &ids, q, userID, friendID)
	return ids, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using MySQL's
// default backslash escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
