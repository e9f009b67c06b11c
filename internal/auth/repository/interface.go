package repository

import (
	"context"
	"time"
)

// Search keys accepted by UserRepository.Search.
const (
	KeyUserName = "userName"
	KeyEmail    = "email"
)

// User is a registered account with the ids of the films it owns.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Films        []string
	CreatedAt    time.Time
}

// UserReader is the read side used by adapters serving other domains.
type UserReader interface {
	QueryByID(ctx context.Context, id string) (User, error)
}

// UserRepository defines the persistence contract for accounts.
type UserRepository interface {
	UserReader

	// Create inserts a user; duplicate userName/email is a store rejection.
	Create(ctx context.Context, user User) (User, error)
	// Search returns users whose key field equals value.
	Search(ctx context.Context, key, value string) ([]User, error)
	// AddFilm appends filmID to the user's films unless already present.
	AddFilm(ctx context.Context, userID, filmID string) error
	// RemoveFilm drops filmID from the user's films; absent ids are a no-op.
	RemoveFilm(ctx context.Context, userID, filmID string) error
}

func validSearchKey(key string) bool {
	return key == KeyUserName || key == KeyEmail
}
