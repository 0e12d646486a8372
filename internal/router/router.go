package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/film-catalog/internal/handler"
	"github.com/iliyamo/film-catalog/internal/middleware"
)

// Handlers bundles everything the API routes dispatch to.
type Handlers struct {
	Films     *handler.FilmHandler
	Users     *handler.UserHandler
	Reference *handler.ReferenceHandler
}

// RegisterRoutes registers the operational endpoints: a liveness check
// and the Prometheus scrape target.  Neither requires authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAPI registers the catalog under /v1.  Reads and like toggles are
// public.  Film and director writes go through the admin guard, which is a
// no-op when adminSecret is empty.
func RegisterAPI(e *echo.Echo, h Handlers, adminSecret string) {
	v1 := e.Group("/v1")
	admin := middleware.AdminGuard(adminSecret)

	// static segments win over :id in Echo's router, so /popular and
	// /search never reach Get
	v1.GET("/films", h.Films.List)
	v1.GET("/films/popular", h.Films.Popular)
	v1.GET("/films/search", h.Films.Search)
	v1.GET("/films/common", h.Films.Common)
	v1.GET("/films/director/:directorId", h.Films.ByDirector)
	v1.GET("/films/:id", h.Films.Get)
	v1.POST("/films", h.Films.Create, admin...)
	v1.PUT("/films/:id", h.Films.Update, admin...)
	v1.DELETE("/films/:id", h.Films.Delete, admin...)
	v1.PUT("/films/:id/like/:userId", h.Films.Like)
	v1.DELETE("/films/:id/like/:userId", h.Films.Unlike)
	v1.GET("/films/:id/like/:userId", h.Films.LikeStatus)
	v1.GET("/films/:id/likes", h.Films.LikeCount)

	v1.GET("/users", h.Users.List)
	v1.POST("/users", h.Users.Create)
	v1.GET("/users/:id", h.Users.Get)
	v1.PUT("/users/:id", h.Users.Update)
	v1.DELETE("/users/:id", h.Users.Delete)
	v1.GET("/users/:id/recommendations", h.Users.Recommendations)
	v1.GET("/users/:id/feed", h.Users.Feed)

	v1.GET("/genres", h.Reference.ListGenres)
	v1.GET("/genres/:id", h.Reference.GetGenre)
	v1.GET("/ratings", h.Reference.ListRatings)
	v1.GET("/ratings/:id", h.Reference.GetRating)
	v1.GET("/directors", h.Reference.ListDirectors)
	v1.GET("/directors/:id", h.Reference.GetDirector)
	v1.POST("/directors", h.Reference.CreateDirector, admin...)
	v1.PUT("/directors/:id", h.Reference.UpdateDirector, admin...)
	v1.DELETE("/directors/:id", h.Reference.DeleteDirector, admin...)
}
