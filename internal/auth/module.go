// Package auth provides the account bounded context module: registration,
// login and account lookup.
package auth

import (
	"film_catalog_backend/internal/auth/adapter"
	"film_catalog_backend/internal/auth/handler"
	"film_catalog_backend/internal/auth/repository"
	"film_catalog_backend/internal/auth/service"
	authvalidator "film_catalog_backend/internal/auth/validator"
	"film_catalog_backend/internal/films/ports"
	apphttp "film_catalog_backend/internal/http"
	"film_catalog_backend/platform/logger"
	"film_catalog_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.UserRepository
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(repo repository.UserRepository, tokens service.TokenIssuer, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := authvalidator.Register(val); err != nil {
		return nil, err
	}

	svc := service.New(repo, tokens, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// OwnerDirectory exposes accounts to the films domain.
func (m *Module) OwnerDirectory() ports.OwnerDirectory {
	return adapter.NewOwnerDirectoryAdapter(m.repo)
}

// RegisterRoutes mounts account routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	users := ctx.Public.Group("/user")
	users.POST("/register", m.handler.Register)
	users.POST("/login", m.handler.Login)

	ctx.Protected.GET("/user/:id", m.handler.GetByID)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
