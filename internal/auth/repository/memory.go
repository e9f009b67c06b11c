package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"film_catalog_backend/platform/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-process UserRepository with the same unique
// constraints as the MongoDB collection.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemory creates an empty in-memory user store.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

func (r *MemoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.UserName == user.UserName {
			return User{}, duplicate(KeyUserName)
		}
		if existing.Email == user.Email {
			return User{}, duplicate(KeyEmail)
		}
	}

	user.ID = primitive.NewObjectID().Hex()
	user.Films = []string{}
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user
	return clone(user), nil
}

func (r *MemoryRepository) QueryByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return User{}, apperr.NotFound(msgUserNotFound)
	}
	return clone(user), nil
}

func (r *MemoryRepository) Search(_ context.Context, key, value string) ([]User, error) {
	if !validSearchKey(key) {
		return nil, apperr.BadRequest(fmt.Sprintf("unsupported search key %q", key))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]User, 0, 1)
	for _, user := range r.users {
		field := user.UserName
		if key == KeyEmail {
			field = user.Email
		}
		if field == value {
			out = append(out, clone(user))
		}
	}
	return out, nil
}

func (r *MemoryRepository) AddFilm(_ context.Context, userID, filmID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound(msgUserNotFound)
	}
	if !slices.Contains(user.Films, filmID) {
		user.Films = append(user.Films, filmID)
		r.users[userID] = user
	}
	return nil
}

func (r *MemoryRepository) RemoveFilm(_ context.Context, userID, filmID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound(msgUserNotFound)
	}
	user.Films = slices.DeleteFunc(user.Films, func(id string) bool { return id == filmID })
	r.users[userID] = user
	return nil
}

func duplicate(field string) error {
	return apperr.NotAcceptable(fmt.Sprintf("%s already exists", field))
}

func clone(user User) User {
	user.Films = slices.Clone(user.Films)
	return user
}

var _ UserRepository = (*MemoryRepository)(nil)
