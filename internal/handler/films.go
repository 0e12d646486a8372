package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-catalog/internal/model"
)

// FilmService is the film behaviour the HTTP layer needs.  It is satisfied
// by *service.FilmService.
type FilmService interface {
	Get(ctx context.Context, id uint64) (model.Film, error)
	List(ctx context.Context) ([]model.Film, error)
	Create(ctx context.Context, d model.FilmDraft) (model.Film, error)
	Update(ctx context.Context, id uint64, d model.FilmDraft) (model.Film, error)
	Delete(ctx context.Context, id uint64) error
	Popular(ctx context.Context, count int, genreID *uint64, year *int) ([]model.Film, error)
	Search(ctx context.Context, query, by string) ([]model.Film, error)
	ByDirector(ctx context.Context, directorID uint64, sortBy string) ([]model.Film, error)
	Common(ctx context.Context, userID, friendID uint64) ([]model.Film, error)
}

// LikeService toggles and reads likes; satisfied by *service.LikeService.
type LikeService interface {
	Like(ctx context.Context, filmID, userID uint64) (bool, error)
	Unlike(ctx context.Context, filmID, userID uint64) (bool, error)
	Liked(ctx context.Context, filmID, userID uint64) (bool, error)
	Count(ctx context.Context, filmID uint64) (int, error)
}

// defaultPopularCount is used when /films/popular has no count.
const defaultPopularCount = 10

// FilmHandler serves /films.
type FilmHandler struct {
	films FilmService
	likes LikeService
}

func NewFilmHandler(films FilmService, likes LikeService) *FilmHandler {
	if films == nil || likes == nil {
		panic("nil dependency passed to NewFilmHandler")
	}
	return &FilmHandler{films: films, likes: likes}
}

// GET /v1/films
func (h *FilmHandler) List(c echo.Context) error {
	films, err := h.films.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}

// GET /v1/films/:id
func (h *FilmHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	f, err := h.films.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// POST /v1/films
func (h *FilmHandler) Create(c echo.Context) error {
	var req filmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	f, err := h.films.Create(c.Request().Context(), req.draft())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// PUT /v1/films/:id
func (h *FilmHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req filmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	f, err := h.films.Update(c.Request().Context(), id, req.draft())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// DELETE /v1/films/:id
func (h *FilmHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.films.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PUT /v1/films/:id/like/:userId
func (h *FilmHandler) Like(c echo.Context) error {
	filmID, userID, err := likePair(c)
	if err != nil {
		return writeError(c, err)
	}
	added, err := h.likes.Like(c.Request().Context(), filmID, userID)
	if err != nil {
		return writeError(c, err)
	}
	status := "liked"
	if !added {
		status = "already_liked"
	}
	return c.JSON(http.StatusOK, likeResponse{FilmID: filmID, UserID: userID, Status: status})
}

// DELETE /v1/films/:id/like/:userId
func (h *FilmHandler) Unlike(c echo.Context) error {
	filmID, userID, err := likePair(c)
	if err != nil {
		return writeError(c, err)
	}
	removed, err := h.likes.Unlike(c.Request().Context(), filmID, userID)
	if err != nil {
		return writeError(c, err)
	}
	status := "unliked"
	if !removed {
		status = "not_liked"
	}
	return c.JSON(http.StatusOK, likeResponse{FilmID: filmID, UserID: userID, Status: status})
}

// GET /v1/films/:id/like/:userId
func (h *FilmHandler) LikeStatus(c echo.Context) error {
	filmID, userID, err := likePair(c)
	if err != nil {
		return writeError(c, err)
	}
	liked, err := h.likes.Liked(c.Request().Context(), filmID, userID)
	if err != nil {
		return writeError(c, err)
	}
	status := "not_liked"
	if liked {
		status = "liked"
	}
	return c.JSON(http.StatusOK, likeResponse{FilmID: filmID, UserID: userID, Status: status})
}

// GET /v1/films/:id/likes
func (h *FilmHandler) LikeCount(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.likes.Count(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"filmId": id, "likes": n})
}

func likePair(c echo.Context) (filmID, userID uint64, err error) {
	if filmID, err = pathID(c, "id"); err != nil {
		return 0, 0, err
	}
	if userID, err = pathID(c, "userId"); err != nil {
		return 0, 0, err
	}
	return filmID, userID, nil
}

// GET /v1/films/popular?count=&genreId=&year=
func (h *FilmHandler) Popular(c echo.Context) error {
	count := defaultPopularCount
	n, err := optionalInt(c, "count")
	if err != nil {
		return writeError(c, err)
	}
	if n != nil {
		count = *n
	}
	genreID, err := optionalID(c, "genreId")
	if err != nil {
		return writeError(c, err)
	}
	year, err := optionalInt(c, "year")
	if err != nil {
		return writeError(c, err)
	}
	films, err := h.films.Popular(c.Request().Context(), count, genreID, year)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}

// GET /v1/films/search?query=&by=title,director
func (h *FilmHandler) Search(c echo.Context) error {
	films, err := h.films.Search(c.Request().Context(), c.QueryParam("query"), c.QueryParam("by"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}

// GET /v1/films/director/:directorId?sortBy=year|likes
func (h *FilmHandler) ByDirector(c echo.Context) error {
	directorID, err := pathID(c, "directorId")
	if err != nil {
		return writeError(c, err)
	}
	sortBy := c.QueryParam("sortBy")
	if sortBy == "" {
		sortBy = "year"
	}
	films, err := h.films.ByDirector(c.Request().Context(), directorID, sortBy)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}

// GET /v1/films/common?userId=&friendId=
func (h *FilmHandler) Common(c echo.Context) error {
	userID, err := queryID(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	friendID, err := queryID(c, "friendId")
	if err != nil {
		return writeError(c, err)
	}
	films, err := h.films.Common(c.Request().Context(), userID, friendID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}
