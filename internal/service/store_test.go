package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/film-catalog/internal/model"
	"github.com/iliyamo/film-catalog/internal/repository"
)

// memStore is an in-memory catalog with the same ordering rules as the
// MySQL repositories.
type memStore struct {
	films     map[uint64]model.Film
	likes     map[uint64]map[uint64]bool // film -> users
	findCalls int
	err       error
}

func newMemStore() *memStore {
	return &memStore{films: map[uint64]model.Film{}, likes: map[uint64]map[uint64]bool{}}
}

func (m *memStore) addFilm(id uint64, name string, year int, genres ...uint64) *memStore {
	f := model.Film{
		ID:          id,
		Name:        name,
		ReleaseDate: model.NewDate(time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)),
		Duration:    100,
		Genres:      []model.Genre{},
		Directors:   []model.Director{},
	}
	for _, g := range genres {
		f.Genres = append(f.Genres, model.Genre{ID: g, Name: fmt.Sprintf("genre-%d", g)})
	}
	m.films[id] = f
	return m
}

func (m *memStore) addDirector(filmID, directorID uint64, name string) *memStore {
	f := m.films[filmID]
	f.Directors = append(f.Directors, model.Director{ID: directorID, Name: name})
	m.films[filmID] = f
	return m
}

func (m *memStore) like(filmID uint64, users ...uint64) *memStore {
	if m.likes[filmID] == nil {
		m.likes[filmID] = map[uint64]bool{}
	}
	for _, u := range users {
		m.likes[filmID][u] = true
	}
	return m
}

func (m *memStore) likeCount(id uint64) int { return len(m.likes[id]) }

func (m *memStore) byPopularity(ids []uint64) []uint64 {
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := m.likeCount(ids[i]), m.likeCount(ids[j])
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (m *memStore) allIDs() []uint64 {
	ids := make([]uint64, 0, len(m.films))
	for id := range m.films {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *memStore) PopularFilmIDs(context.Context) ([]uint64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byPopularity(m.allIDs()), nil
}

func (m *memStore) FilmIDsByGenre(_ context.Context, genreID uint64) ([]uint64, error) {
	var out []uint64
	for _, id := range m.allIDs() {
		for _, g := range m.films[id].Genres {
			if g.ID == genreID {
				out = append(out, id)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) FilmIDsByYear(_ context.Context, year int) ([]uint64, error) {
	var out []uint64
	for _, id := range m.allIDs() {
		if m.films[id].ReleaseDate.Year() == year {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memStore) SearchIDs(_ context.Context, query string, byTitle, byDirector bool) ([]uint64, error) {
	q := strings.ToLower(query)
	var out []uint64
	for _, id := range m.allIDs() {
		f := m.films[id]
		hit := byTitle && strings.Contains(strings.ToLower(f.Name), q)
		if !hit && byDirector {
			for _, d := range f.Directors {
				if strings.Contains(strings.ToLower(d.Name), q) {
					hit = true
					break
				}
			}
		}
		if hit {
			out = append(out, id)
		}
	}
	return m.byPopularity(out), nil
}

func (m *memStore) LikedFilmIDs(_ context.Context, userID uint64) ([]uint64, error) {
	out := []uint64{}
	for _, id := range m.allIDs() {
		if m.likes[id][userID] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memStore) Overlaps(ctx context.Context, userID uint64) ([]repository.Overlap, error) {
	mine, _ := m.LikedFilmIDs(ctx, userID)
	shared := map[uint64]int{}
	for _, id := range mine {
		for u := range m.likes[id] {
			if u != userID {
				shared[u]++
			}
		}
	}
	out := []repository.Overlap{}
	for u, n := range shared {
		out = append(out, repository.Overlap{UserID: u, Shared: n})
	}
	return out, nil
}

func (m *memStore) FindByIDs(_ context.Context, ids []uint64) ([]model.Film, error) {
	m.findCalls++
	out := []model.Film{}
	for _, id := range m.allIDs() {
		for _, want := range ids {
			if id == want {
				out = append(out, m.films[id])
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id uint64) (model.Film, error) {
	f, ok := m.films[id]
	if !ok {
		return model.Film{}, fmt.Errorf("%w: %d", repository.ErrFilmNotFound, id)
	}
	return f, nil
}

func (m *memStore) List(ctx context.Context) ([]model.Film, error) {
	return m.FindByIDs(ctx, m.allIDs())
}

func (m *memStore) Create(_ context.Context, d model.FilmDraft) (model.Film, error) {
	id := uint64(len(m.films) + 1)
	f := model.Film{ID: id, Name: *d.Name, ReleaseDate: model.NewDate(*d.ReleaseDate), Duration: *d.Duration}
	m.films[id] = f
	return f, nil
}

func (m *memStore) Update(_ context.Context, id uint64, d model.FilmDraft) (model.Film, error) {
	f, ok := m.films[id]
	if !ok {
		return model.Film{}, repository.ErrFilmNotFound
	}
	if d.Name != nil {
		f.Name = *d.Name
	}
	m.films[id] = f
	return f, nil
}

func (m *memStore) Delete(_ context.Context, id uint64) error {
	if _, ok := m.films[id]; !ok {
		return repository.ErrFilmNotFound
	}
	delete(m.films, id)
	return nil
}

func (m *memStore) DirectorFilmIDs(_ context.Context, directorID uint64, byLikes bool) ([]uint64, error) {
	var out []uint64
	for _, id := range m.allIDs() {
		for _, d := range m.films[id].Directors {
			if d.ID == directorID {
				out = append(out, id)
			}
		}
	}
	if byLikes {
		return m.byPopularity(out), nil
	}
	sort.SliceStable(out, func(i, j int) bool {
		return m.films[out[i]].ReleaseDate.Before(m.films[out[j]].ReleaseDate.Time)
	})
	return out, nil
}

func (m *memStore) CommonFilmIDs(_ context.Context, userID, friendID uint64) ([]uint64, error) {
	var out []uint64
	for _, id := range m.allIDs() {
		if m.likes[id][userID] && m.likes[id][friendID] {
			out = append(out, id)
		}
	}
	return m.byPopularity(out), nil
}

// idSet is an Exister over a fixed id set.
type idSet map[uint64]bool

func (s idSet) Exists(_ context.Context, id uint64) (bool, error) { return s[id], nil }
