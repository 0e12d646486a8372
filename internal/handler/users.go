package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-catalog/internal/model"
)

// UserStore manages users; satisfied by *repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	Update(ctx context.Context, u model.User) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint64) error
}

// Recommender is satisfied by *service.FilmService.
type Recommender interface {
	Recommend(ctx context.Context, userID uint64) ([]model.Film, error)
}

// FeedReader is satisfied by *service.FeedService.
type FeedReader interface {
	Feed(ctx context.Context, userID uint64) ([]model.FeedEvent, error)
}

// UserHandler serves /users.
type UserHandler struct {
	users       UserStore
	recommender Recommender
	feed        FeedReader
}

func NewUserHandler(users UserStore, recommender Recommender, feed FeedReader) *UserHandler {
	if users == nil || recommender == nil || feed == nil {
		panic("nil dependency passed to NewUserHandler")
	}
	return &UserHandler{users: users, recommender: recommender, feed: feed}
}

// POST /v1/users
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	u, err := h.users.Create(c.Request().Context(), req.user())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// PUT /v1/users/:id
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	u := req.user()
	u.ID = id
	u, err = h.users.Update(c.Request().Context(), u)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// GET /v1/users
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// DELETE /v1/users/:id removes the user along with their likes and feed.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /v1/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	u, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// GET /v1/users/:id/recommendations
func (h *UserHandler) Recommendations(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	films, err := h.recommender.Recommend(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}

// GET /v1/users/:id/feed
func (h *UserHandler) Feed(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	events, err := h.feed.Feed(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}
