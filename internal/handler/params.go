package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-catalog/internal/service"
)

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return parseID(name, c.Param(name))
}

// queryID parses a required positive integer query parameter.
func queryID(c echo.Context, name string) (uint64, error) {
	raw := c.QueryParam(name)
	if strings.TrimSpace(raw) == "" {
		return 0, &service.ValidationError{Field: name, Message: "is required"}
	}
	return parseID(name, raw)
}

func parseID(name, raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

// optionalInt parses an optional integer query parameter.
func optionalInt(c echo.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &service.ValidationError{Field: name, Message: "must be an integer"}
	}
	return &n, nil
}

// optionalID parses an optional positive integer query parameter.
func optionalID(c echo.Context, name string) (*uint64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
