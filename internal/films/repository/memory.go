package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/pagination"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-process film Repository. Films are kept in
// insertion order, which matches the _id ordering of the MongoDB store.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	films map[string]Film
}

// NewMemory creates an empty in-memory film store.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{films: make(map[string]Film)}
}

func (r *MemoryRepository) Create(_ context.Context, film Film) (Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	film.ID = primitive.NewObjectID().Hex()
	film.CreatedAt = now
	film.UpdatedAt = now
	if film.Comments == nil {
		film.Comments = []Comment{}
	}

	r.films[film.ID] = cloneFilm(film)
	r.order = append(r.order, film.ID)
	return cloneFilm(film), nil
}

func (r *MemoryRepository) QueryByID(_ context.Context, id string) (Film, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	film, ok := r.films[id]
	if !ok {
		return Film{}, apperr.NotFound(msgFilmNotFound)
	}
	return cloneFilm(film), nil
}

func (r *MemoryRepository) Query(_ context.Context, page, pageSize int, filter Filter) ([]Film, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matching(filter)
	start := pagination.Offset(page, pageSize)
	if start >= int64(len(matched)) || pageSize <= 0 {
		return []Film{}, nil
	}
	end := min(start+int64(pageSize), int64(len(matched)))

	out := make([]Film, 0, end-start)
	for _, film := range matched[start:end] {
		out = append(out, cloneFilm(film))
	}
	return out, nil
}

func (r *MemoryRepository) Count(_ context.Context, filter Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.matching(filter))), nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, film Film) (Film, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.films[id]
	if !ok {
		return Film{}, apperr.NotFound(msgFilmNotFound)
	}

	film.ID = id
	film.CreatedAt = current.CreatedAt
	film.UpdatedAt = time.Now().UTC()
	r.films[id] = cloneFilm(film)
	return cloneFilm(film), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.films[id]; !ok {
		return apperr.NotFound(msgFilmNotFound)
	}
	delete(r.films, id)
	r.order = slices.DeleteFunc(r.order, func(existing string) bool { return existing == id })
	return nil
}

// matching must be called with the lock held.
func (r *MemoryRepository) matching(filter Filter) []Film {
	out := make([]Film, 0, len(r.order))
	for _, id := range r.order {
		film := r.films[id]
		if filter.Genre != "" && film.Genre != filter.Genre {
			continue
		}
		out = append(out, film)
	}
	return out
}

func cloneFilm(film Film) Film {
	film.Comments = slices.Clone(film.Comments)
	if film.Comments == nil {
		film.Comments = []Comment{}
	}
	if film.Poster != nil {
		poster := *film.Poster
		film.Poster = &poster
	}
	return film
}

var _ Repository = (*MemoryRepository)(nil)
