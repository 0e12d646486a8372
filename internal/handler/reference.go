package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-catalog/internal/model"
)

type GenreStore interface {
	List(ctx context.Context) ([]model.Genre, error)
	GetByID(ctx context.Context, id uint64) (model.Genre, error)
}

type RatingStore interface {
	List(ctx context.Context) ([]model.Rating, error)
	GetByID(ctx context.Context, id uint64) (model.Rating, error)
}

type DirectorStore interface {
	List(ctx context.Context) ([]model.Director, error)
	GetByID(ctx context.Context, id uint64) (model.Director, error)
	Create(ctx context.Context, name string) (model.Director, error)
	Update(ctx context.Context, id uint64, name string) (model.Director, error)
	Delete(ctx context.Context, id uint64) error
}

// ReferenceHandler serves the lookup tables: /genres, /ratings and /directors.
// Genres and ratings are seeded by the schema and read-only over HTTP.
type ReferenceHandler struct {
	genres    GenreStore
	ratings   RatingStore
	directors DirectorStore
}

func NewReferenceHandler(genres GenreStore, ratings RatingStore, directors DirectorStore) *ReferenceHandler {
	if genres == nil || ratings == nil || directors == nil {
		panic("nil dependency passed to NewReferenceHandler")
	}
	return &ReferenceHandler{genres: genres, ratings: ratings, directors: directors}
}

func (h *ReferenceHandler) ListGenres(c echo.Context) error {
	out, err := h.genres.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReferenceHandler) GetGenre(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	g, err := h.genres.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *ReferenceHandler) ListRatings(c echo.Context) error {
	out, err := h.ratings.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReferenceHandler) GetRating(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	r, err := h.ratings.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReferenceHandler) ListDirectors(c echo.Context) error {
	out, err := h.directors.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReferenceHandler) GetDirector(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	d, err := h.directors.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// POST /v1/directors (admin)
func (h *ReferenceHandler) CreateDirector(c echo.Context) error {
	var req directorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	d, err := h.directors.Create(c.Request().Context(), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// PUT /v1/directors/:id (admin)
func (h *ReferenceHandler) UpdateDirector(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req directorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	d, err := h.directors.Update(c.Request().Context(), id, req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// DELETE /v1/directors/:id (admin)
func (h *ReferenceHandler) DeleteDirector(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.directors.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
