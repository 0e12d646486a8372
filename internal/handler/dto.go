package handler

import "github.com/iliyamo/film-catalog/internal/model"

// refRequest references a rating, genre or director by id.
type refRequest struct {
	ID uint64 `json:"id" validate:"gt=0"`
}

// filmRequest is the body of film create and update.  Omitted fields
// stay nil so an update leaves them untouched; an explicit empty genres
// or directors list clears the set.
type filmRequest struct {
	Name        *string      `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string      `json:"description" validate:"omitempty,max=200"`
	ReleaseDate *model.Date  `json:"releaseDate" validate:"omitempty,releasedate"`
	Duration    *int         `json:"duration" validate:"omitempty,gt=0"`
	Mpa         *refRequest  `json:"mpa"`
	Genres      []refRequest `json:"genres" validate:"omitempty,dive"`
	Directors   []refRequest `json:"directors" validate:"omitempty,dive"`
}

func (r filmRequest) draft() model.FilmDraft {
	d := model.FilmDraft{
		Name:        r.Name,
		Description: r.Description,
		Duration:    r.Duration,
	}
	if r.ReleaseDate != nil {
		t := r.ReleaseDate.Time
		d.ReleaseDate = &t
	}
	if r.Mpa != nil {
		id := r.Mpa.ID
		d.RatingID = &id
	}
	if r.Genres != nil {
		d.GenreIDs = refIDs(r.Genres)
	}
	if r.Directors != nil {
		d.DirectorIDs = refIDs(r.Directors)
	}
	return d
}

func refIDs(refs []refRequest) []uint64 {
	out := make([]uint64, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}

type userRequest struct {
	Email    string      `json:"email" validate:"required,email,max=255"`
	Login    string      `json:"login" validate:"required,nowhitespace,max=64"`
	Name     string      `json:"name" validate:"max=255"`
	Birthday *model.Date `json:"birthday" validate:"omitempty,pastdate"`
}

func (r userRequest) user() model.User {
	return model.User{Email: r.Email, Login: r.Login, Name: r.Name, Birthday: r.Birthday}
}

type directorRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// likeResponse reports the outcome of a like toggle.  Status is one of
// "liked", "already_liked", "unliked" or "not_liked".
type likeResponse struct {
	FilmID uint64 `json:"filmId"`
	UserID uint64 `json:"userId"`
	Status string `json:"status"`
}
