package repository

import (
	"context"
	"time"
)

const msgFilmNotFound = "film not found"

// Film is a catalog entry owned by one user.
type Film struct {
	ID        string
	Title     string
	Director  string
	Year      int
	Genre     string
	Owner     string
	Comments  []Comment
	Poster    *Poster
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is a free-text note attached to a film.
type Comment struct {
	Comment       string
	OwnerID       string
	OwnerUserName string
}

// Poster references an uploaded image.
type Poster struct {
	URLOriginal string
	URL         string
	Mimetype    string
	Size        int64
}

// Filter narrows Query and Count. Empty fields match everything.
type Filter struct {
	Genre string
}

// Repository defines the persistence contract for films.
type Repository interface {
	Create(ctx context.Context, film Film) (Film, error)
	// QueryByID returns a not-found error when id is absent.
	QueryByID(ctx context.Context, id string) (Film, error)
	// Query returns one page of films in creation order.
	Query(ctx context.Context, page, pageSize int, filter Filter) ([]Film, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// Update replaces the stored film and returns the stored version.
	Update(ctx context.Context, id string, film Film) (Film, error)
	// Delete returns a not-found error when id is absent.
	Delete(ctx context.Context, id string) error
}
