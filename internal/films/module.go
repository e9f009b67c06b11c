// Package films provides the film catalog bounded context module.
package films

import (
	"film_catalog_backend/internal/events"
	"film_catalog_backend/internal/films/handler"
	"film_catalog_backend/internal/films/ports"
	"film_catalog_backend/internal/films/repository"
	"film_catalog_backend/internal/films/service"
	apphttp "film_catalog_backend/internal/http"
	"film_catalog_backend/internal/uploads"
	"film_catalog_backend/platform/httpkit"
	"film_catalog_backend/platform/logger"
	"film_catalog_backend/platform/validator"
)

// Module is the films bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	uploads *uploads.Middleware
}

// NewModule creates the films module. uploads may be nil, in which case the
// poster route is not mounted.
func NewModule(repo repository.Repository, owners ports.OwnerDirectory, eventBus events.Bus, up *uploads.Middleware, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, owners, eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		uploads: up,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "films"
}

// Service returns the films service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts film routes behind the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ownerOnly := httpkit.OwnerOnly(m.service, "id")

	films := ctx.Protected.Group("/film")
	films.POST("", m.handler.Create)
	films.GET("", m.handler.List)
	films.GET("/:id", m.handler.GetByID)
	films.PATCH("/:id", ownerOnly, m.handler.Update)
	films.DELETE("/:id", ownerOnly, m.handler.Delete)
	films.POST("/:id/comment", m.handler.AddComment)

	if m.uploads != nil {
		films.PATCH("/:id/poster",
			ownerOnly,
			m.uploads.SingleFileStore(handler.PosterField),
			m.uploads.SaveDataImage(),
			m.handler.SetPoster,
		)
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
