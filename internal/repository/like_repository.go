package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// LikeRepo owns the film/user "like" relation.  A like is a bare
// (film_id, user_id) pair; the primary key keeps pairs unique.
type LikeRepo struct {
	db *sqlx.DB
}

// NewLikeRepo constructs a LikeRepo with the provided DB handle.
func NewLikeRepo(db *sqlx.DB) *LikeRepo {
	return &LikeRepo{db: db}
}

// Overlap is the number of films another user shares with a target user.
type Overlap struct {
	UserID uint64 `db:"user_id"`
	Shared int    `db:"shared"`
}

// Add records that userID likes filmID.  Adding an existing pair is a
// no-op reported as added=false.
func (r *LikeRepo) Add(ctx context.Context, filmID, userID uint64) (bool, error) {
	_, err := r.db.ExecContext(ctx, "INSERT INTO likes (film_id, user_id) VALUES (?, ?)", filmID, userID)
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove deletes the pair.  Removing a missing pair is a no-op reported
// as removed=false.
func (r *LikeRepo) Remove(ctx context.Context, filmID, userID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM likes WHERE film_id = ? AND user_id = ?", filmID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Has reports whether userID likes filmID.
func (r *LikeRepo) Has(ctx context.Context, filmID, userID uint64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok,
		"SELECT EXISTS(SELECT 1 FROM likes WHERE film_id = ? AND user_id = ?)", filmID, userID)
	return ok, err
}

// CountForFilm returns the number of users liking filmID.
func (r *LikeRepo) CountForFilm(ctx context.Context, filmID uint64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM likes WHERE film_id = ?", filmID)
	return n, err
}

// LikedFilmIDs returns the films userID likes, ascending.
func (r *LikeRepo) LikedFilmIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	ids := []uint64{}
	err := r.db.SelectContext(ctx, &ids,
		"SELECT film_id FROM likes WHERE user_id = ? ORDER BY film_id", userID)
	return ids, err
}

// PopularFilmIDs returns every film id ordered by distinct like count,
// most liked first.  Films without likes follow all liked films.  Equal
// counts are ordered by id ascending.
func (r *LikeRepo) PopularFilmIDs(ctx context.Context) ([]uint64, error) {
	const q = `SELECT f.id FROM films f
		LEFT JOIN likes l ON l.film_id = f.id
		GROUP BY f.id
		ORDER BY COUNT(DISTINCT l.user_id) DESC, f.id ASC`
	ids := []uint64{}
	err := r.db.SelectContext(ctx, &ids, q)
	return ids, err
}

// Overlaps returns, for every other user that likes at least one film
// userID likes, the size of that shared set.
func (r *LikeRepo) Overlaps(ctx context.Context, userID uint64) ([]Overlap, error) {
	const q = `SELECT other.user_id AS user_id, COUNT(*) AS shared
		FROM likes mine
		JOIN likes other ON other.film_id = mine.film_id AND other.user_id <> mine.user_id
		WHERE mine.user_id = ?
		GROUP BY other.user_id
		ORDER BY shared DESC, other.user_id ASC`
	out := []Overlap{}
	err := r.db.SelectContext(ctx, &out, q, userID)
	return out, err
}
