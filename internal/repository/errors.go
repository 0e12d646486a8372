// Package repository holds the MySQL data access layer.  These sentinel
// values let higher layers such as handlers tell failure scenarios apart;
// callers compare with errors.Is because most of them are returned wrapped
// with the offending id.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Not-found sentinels.  Handlers translate these into HTTP 404.
var (
	ErrFilmNotFound     = errors.New("film not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrDirectorNotFound = errors.New("director not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrUserNotFound     = errors.New("user not found")
)

// ErrReadbackMissing is returned when a write succeeded but reading the
// written film back inside the same transaction found nothing.  It is an
// internal consistency failure; the transaction is rolled back and the
// caller must not retry.
var ErrReadbackMissing = errors.New("film readback missing after write")

// ErrConflict is returned when an insert collides with a unique key, such
// as a second user with the same email.  Handlers translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is MySQL error 1062 (ER_DUP_ENTRY).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
