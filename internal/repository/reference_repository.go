package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/film-catalog/internal/model"
)

// GenreRepo reads the genres dictionary.
type GenreRepo struct{ db *sqlx.DB }

func NewGenreRepo(db *sqlx.DB) *GenreRepo { return &GenreRepo{db: db} }

// List returns all genres ordered by id.
func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	out := []model.Genre{}
	err := r.db.SelectContext(ctx, &out, "SELECT id, name FROM genres ORDER BY id")
	return out, err
}

// GetByID returns a genre or ErrGenreNotFound.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (model.Genre, error) {
	var g model.Genre
	err := r.db.GetContext(ctx, &g, "SELECT id, name FROM genres WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Genre{}, fmt.Errorf("%w: %d", ErrGenreNotFound, id)
	}
	return g, err
}

// RatingRepo reads the age ratings dictionary.
type RatingRepo struct{ db *sqlx.DB }

func NewRatingRepo(db *sqlx.DB) *RatingRepo { return &RatingRepo{db: db} }

// List returns all ratings ordered by id.
func (r *RatingRepo) List(ctx context.Context) ([]model.Rating, error) {
	out := []model.Rating{}
	err := r.db.SelectContext(ctx, &out, "SELECT id, name FROM ratings ORDER BY id")
	return out, err
}

// GetByID returns a rating or ErrRatingNotFound.
func (r *RatingRepo) GetByID(ctx context.Context, id uint64) (model.Rating, error) {
	var m model.Rating
	err := r.db.GetContext(ctx, &m, "SELECT id, name FROM ratings WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Rating{}, fmt.Errorf("%w: %d", ErrRatingNotFound, id)
	}
	return m, err
}
