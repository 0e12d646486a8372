package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/film-catalog/internal/model"
)

// DirectorRepo encapsulates CRUD on the directors table.  Deleting a
// director drops its film_directors rows through ON DELETE CASCADE.
type DirectorRepo struct {
	db *sqlx.DB
}

// NewDirectorRepo constructs a DirectorRepo with the provided DB handle.
func NewDirectorRepo(db *sqlx.DB) *DirectorRepo {
	return &DirectorRepo{db: db}
}

// List returns all directors ordered by id.
func (r *DirectorRepo) List(ctx context.Context) ([]model.Director, error) {
	out := []model.Director{}
	err := r.db.SelectContext(ctx, &out, "SELECT id, name FROM directors ORDER BY id")
	return out, err
}

// GetByID returns a director or ErrDirectorNotFound.
func (r *DirectorRepo) GetByID(ctx context.Context, id uint64) (model.Director, error) {
	var d model.Director
	err := r.db.GetContext(ctx, &d, "SELECT id, name FROM directors WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Director{}, fmt.Errorf("%w: %d", ErrDirectorNotFound, id)
	}
	return d, err
}

// Exists reports whether a director with id exists.
func (r *DirectorRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, "SELECT EXISTS(SELECT 1 FROM directors WHERE id = ?)", id)
	return ok, err
}

// Create inserts a director and returns it with its id.
func (r *DirectorRepo) Create(ctx context.Context, name string) (model.Director, error) {
	name = strings.TrimSpace(name)
	res, err := r.db.ExecContext(ctx, "INSERT INTO directors (name) VALUES (?)", name)
	if err != nil {
		return model.Director{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Director{}, err
	}
	return model.Director{ID: uint64(id), Name: name}, nil
}

// Update renames a director.
func (r *DirectorRepo) Update(ctx context.Context, id uint64, name string) (model.Director, error) {
	name = strings.TrimSpace(name)
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return model.Director{}, err
	}
	if !ok {
		return model.Director{}, fmt.Errorf("%w: %d", ErrDirectorNotFound, id)
	}
	// RowsAffected is 0 when the name is unchanged, so existence is checked above.
	if _, err := r.db.ExecContext(ctx, "UPDATE directors SET name = ? WHERE id = ?", name, id); err != nil {
		return model.Director{}, err
	}
	return model.Director{ID: id, Name: name}, nil
}

// Delete removes a director.
func (r *DirectorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM directors WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrDirectorNotFound, id)
	}
	return nil
}
