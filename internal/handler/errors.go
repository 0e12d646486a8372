// Package handler exposes the catalog over HTTP.  Handlers parse and
// validate input, call the service layer and translate its errors into
// JSON responses of the form {"error": code, "message": text}.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/film-catalog/internal/repository"
	"github.com/iliyamo/film-catalog/internal/service"
)

var notFound = []error{
	repository.ErrFilmNotFound,
	repository.ErrGenreNotFound,
	repository.ErrDirectorNotFound,
	repository.ErrRatingNotFound,
	repository.ErrUserNotFound,
}

// writeError maps err onto a status code: not-found sentinels to 404,
// validation errors to 400, conflicts to 409 and anything else to 500.
// Internal errors are logged and their text is not exposed.
func writeError(c echo.Context, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "message": ve.Error()})
	case isNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "message": err.Error()})
	}
	log.Error().Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("route", c.Path()).
		Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "internal server error"})
}

func isNotFound(err error) bool {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
