// Package service holds the catalog's query and write orchestration:
// popularity ranking, search, recommendation, likes and the feed.
package service

import "fmt"

// ValidationError reports a malformed caller request, such as a blank
// search query or an unknown sort key.  Handlers translate it into 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
