package service

import (
	"context"
	"strings"

	"film_catalog_backend/internal/auth/password"
	"film_catalog_backend/internal/auth/repository"
	"film_catalog_backend/internal/auth/transport"
	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/httpkit"
	"film_catalog_backend/platform/logger"
)

const msgInvalidCredentials = "Invalid user or password"

// TokenIssuer signs token payloads.
type TokenIssuer interface {
	Create(payload httpkit.TokenPayload) (string, error)
}

// Service implements account registration, login and lookup.
type Service struct {
	repo   repository.UserRepository
	tokens TokenIssuer
	log    *logger.Logger
}

// New creates a new auth service.
func New(repo repository.UserRepository, tokens TokenIssuer, log *logger.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, log: log}
}

// Register hashes the password and stores a new account.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.UserResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.Create(ctx, repository.User{
		UserName:     strings.TrimSpace(req.UserName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	})
	if err != nil {
		s.log.AuthEvent("register", req.UserName, false, err.Error())
		return transport.UserResponse{}, err
	}

	s.log.AuthEvent("register", user.UserName, true, "")
	return toUserResponse(user), nil
}

// Login matches the identifier against user names first, then emails, and
// returns a signed token with the user. Unknown users and wrong passwords
// fail identically.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	identifier := strings.TrimSpace(req.User)
	if identifier == "" || req.Password == "" {
		return transport.LoginResponse{}, apperr.BadRequest(msgInvalidCredentials)
	}

	user, found, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return transport.LoginResponse{}, err
	}
	if !found || !password.Compare(req.Password, user.PasswordHash) {
		s.log.AuthEvent("login", identifier, false, "invalid credentials")
		return transport.LoginResponse{}, apperr.BadRequest(msgInvalidCredentials)
	}

	token, err := s.tokens.Create(httpkit.TokenPayload{ID: user.ID, UserName: user.UserName})
	if err != nil {
		return transport.LoginResponse{}, err
	}

	s.log.AuthEvent("login", user.UserName, true, "")
	return transport.LoginResponse{Token: token, User: toUserResponse(user)}, nil
}

// GetByID returns the public view of an account.
func (s *Service) GetByID(ctx context.Context, id string) (transport.UserResponse, error) {
	user, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *Service) findByIdentifier(ctx context.Context, identifier string) (repository.User, bool, error) {
	for _, key := range []string{repository.KeyUserName, repository.KeyEmail} {
		value := identifier
		if key == repository.KeyEmail {
			value = strings.ToLower(identifier)
		}
		users, err := s.repo.Search(ctx, key, value)
		if err != nil {
			return repository.User{}, false, err
		}
		if len(users) > 0 {
			return users[0], true, nil
		}
	}
	return repository.User{}, false, nil
}

func toUserResponse(user repository.User) transport.UserResponse {
	films := user.Films
	if films == nil {
		films = []string{}
	}
	return transport.UserResponse{
		ID:        user.ID,
		UserName:  user.UserName,
		Email:     user.Email,
		Films:     films,
		CreatedAt: user.CreatedAt,
	}
}
