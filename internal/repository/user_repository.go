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

// UserRepo stores the minimal user records likes and feeds refer to.
type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts u and returns it with its id.  Email is normalized to
// lower case; a blank name defaults to the login.  Duplicate email or
// login yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	u = normalizeUser(u)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, login, name, birthday) VALUES (?, ?, ?, ?)",
		u.Email, u.Login, u.Name, u.Birthday)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, fmt.Errorf("%w: email or login already taken", ErrConflict)
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u.ID = uint64(id)
	return u, nil
}

// Update overwrites user u.ID.  Normalization and conflict handling match
// Create; an unknown id yields ErrUserNotFound.
func (r *UserRepo) Update(ctx context.Context, u model.User) (model.User, error) {
	u = normalizeUser(u)
	ok, err := r.Exists(ctx, u.ID)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		return model.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, u.ID)
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE users SET email = ?, login = ?, name = ?, birthday = ? WHERE id = ?",
		u.Email, u.Login, u.Name, u.Birthday, u.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, fmt.Errorf("%w: email or login already taken", ErrConflict)
		}
		return model.User{}, err
	}
	return u, nil
}

// List returns every user by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	err := r.db.SelectContext(ctx, &out, "SELECT id, email, login, name, birthday FROM users ORDER BY id")
	return out, err
}

// Delete removes a user.  Their likes and feed events go with it through
// ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}
	return nil
}

func normalizeUser(u model.User) model.User {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Login = strings.TrimSpace(u.Login)
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
	return u
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u,
		"SELECT id, email, login, name, birthday FROM users WHERE id = ? LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}
	return u, err
}

// Exists reports whether a user with id exists.
func (r *UserRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id)
	return ok, err
}
