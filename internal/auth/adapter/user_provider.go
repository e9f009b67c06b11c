// Package adapter provides implementations of external interfaces that other domains need.
// The auth domain satisfies consumer-driven interfaces defined by other domains
// without exposing its repository types.
package adapter

import (
	"context"

	"film_catalog_backend/internal/auth/repository"
	"film_catalog_backend/internal/films/ports"
)

// OwnerDirectoryAdapter implements films/ports.OwnerDirectory using the user repository.
type OwnerDirectoryAdapter struct {
	repo repository.UserRepository
}

// NewOwnerDirectoryAdapter creates the adapter.
func NewOwnerDirectoryAdapter(repo repository.UserRepository) *OwnerDirectoryAdapter {
	return &OwnerDirectoryAdapter{repo: repo}
}

// GetOwner implements ports.OwnerDirectory.
func (a *OwnerDirectoryAdapter) GetOwner(ctx context.Context, userID string) (ports.Owner, error) {
	user, err := a.repo.QueryByID(ctx, userID)
	if err != nil {
		return ports.Owner{}, err
	}
	return ports.Owner{ID: user.ID, UserName: user.UserName}, nil
}

// LinkFilm implements ports.OwnerDirectory.
func (a *OwnerDirectoryAdapter) LinkFilm(ctx context.Context, userID, filmID string) error {
	return a.repo.AddFilm(ctx, userID, filmID)
}

// UnlinkFilm implements ports.OwnerDirectory.
func (a *OwnerDirectoryAdapter) UnlinkFilm(ctx context.Context, userID, filmID string) error {
	return a.repo.RemoveFilm(ctx, userID, filmID)
}

var _ ports.OwnerDirectory = (*OwnerDirectoryAdapter)(nil)
