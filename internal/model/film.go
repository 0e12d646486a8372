package model

import "time"

// Film is the film aggregate: the films row plus its rating, genres and
// directors.  Genres and directors hold distinct ids sorted ascending.
// Values are built once by the repository layer and treated as immutable;
// an update replaces the sets instead of editing them in place.
//
// Fields:
//
//	ID          – films.id, assigned by the store.
//	Name        – films.name, non-empty.
//	Description – films.description, at most 200 characters.
//	ReleaseDate – films.release_date, not before 1895-12-28.
//	Duration    – films.duration in minutes, positive.
//	Rating      – films.rating_id joined to ratings; nil when unset.
type Film struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ReleaseDate Date       `json:"releaseDate"`
	Duration    int        `json:"duration"`
	Rating      *Rating    `json:"mpa"`
	Genres      []Genre    `json:"genres"`
	Directors   []Director `json:"directors"`
}

// EarliestReleaseDate is the first public film screening.  No film may be
// released before it.
var EarliestReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

// MaxDescriptionLen bounds Film.Description in characters.
const MaxDescriptionLen = 200

// FilmDraft carries the writable fields of a film.  For updates a nil field
// keeps the stored value; a non-nil slice replaces the whole set, so an empty
// slice clears it.
type FilmDraft struct {
	Name        *string
	Description *string
	ReleaseDate *time.Time
	Duration    *int
	RatingID    *uint64
	GenreIDs    []uint64
	DirectorIDs []uint64
}

// GenreIDs returns the ids of f.Genres in order.
func (f Film) GenreIDs() []uint64 {
	out := make([]uint64, 0, len(f.Genres))
	for _, g := range f.Genres {
		out = append(out, g.ID)
	}
	return out
}

// DirectorIDs returns the ids of f.Directors in order.
func (f Film) DirectorIDs() []uint64 {
	out := make([]uint64, 0, len(f.Directors))
	for _, d := range f.Directors {
		out = append(out, d.ID)
	}
	return out
}
