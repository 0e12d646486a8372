package service

import (
	"context"
	"strings"

	"github.com/iliyamo/film-catalog/internal/metrics"
)

// SearchStore runs the substring search query.
type SearchStore interface {
	SearchIDs(ctx context.Context, query string, byTitle, byDirector bool) ([]uint64, error)
}

// SearchBy selects the fields a search matches against.
type SearchBy struct {
	Title    bool
	Director bool
}

// ParseSearchBy reads a comma-separated field list such as "title,director".
// Tokens are trimmed and case-insensitive; unknown tokens are ignored, but at
// least one of title or director must be present.
func ParseSearchBy(raw string) (SearchBy, error) {
	var by SearchBy
	for _, tok := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(tok)) {
		case "title":
			by.Title = true
		case "director":
			by.Director = true
		}
	}
	if !by.Title && !by.Director {
		if strings.TrimSpace(raw) == "" {
			return SearchBy{}, invalid("by", "must not be empty")
		}
		return SearchBy{}, invalid("by", "must contain title and/or director, got %q", raw)
	}
	return by, nil
}

// Searcher validates search requests and returns matching film ids, most
// liked first.
type Searcher struct {
	store SearchStore
}

func NewSearcher(store SearchStore) *Searcher {
	if store == nil {
		panic("nil SearchStore")
	}
	return &Searcher{store: store}
}

// Search matches query as a case-insensitive substring of the selected
// fields.  A film matching several ways appears once.
func (s *Searcher) Search(ctx context.Context, query string, by SearchBy) ([]uint64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("query", "must not be blank")
	}
	if !by.Title && !by.Director {
		return nil, invalid("by", "must contain title and/or director")
	}
	metrics.RecordSearch(by.Title, by.Director)
	return s.store.SearchIDs(ctx, query, by.Title, by.Director)
}

// SearchRaw parses the by list and searches.
func (s *Searcher) SearchRaw(ctx context.Context, query, by string) ([]uint64, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalid("query", "must not be blank")
	}
	fields, err := ParseSearchBy(by)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, query, fields)
}
