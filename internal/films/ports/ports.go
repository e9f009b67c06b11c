// Package ports declares what the films domain needs from other domains.
package ports

import "context"

// Owner is the minimal account view a film needs.
type Owner struct {
	ID       string
	UserName string
}

// OwnerDirectory resolves accounts and maintains their owned-film references.
// LinkFilm and UnlinkFilm must be idempotent.
type OwnerDirectory interface {
	GetOwner(ctx context.Context, userID string) (Owner, error)
	LinkFilm(ctx context.Context, userID, filmID string) error
	UnlinkFilm(ctx context.Context, userID, filmID string) error
}
