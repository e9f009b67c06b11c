package uploads

import (
	"context"
	"fmt"

	"film_catalog_backend/internal/events"
	"film_catalog_backend/platform/logger"
)

// Remover deletes a previously published object by its public URL.
type Remover interface {
	Remove(ctx context.Context, publicURL string) error
}

// PosterCleanup removes poster objects that no film references any more.
type PosterCleanup struct {
	remover Remover
	log     *logger.Logger
}

// NewPosterCleanup creates the cleanup subscriber.
func NewPosterCleanup(remover Remover, log *logger.Logger) *PosterCleanup {
	return &PosterCleanup{remover: remover, log: log}
}

// RegisterHandlers subscribes to the film events that orphan posters.
func (p *PosterCleanup) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.FilmDeleted{}.EventName(), events.HandlerFunc(p.handleFilmDeleted))
	bus.Subscribe(events.FilmPosterReplaced{}.EventName(), events.HandlerFunc(p.handlePosterReplaced))
	bus.Subscribe(events.FilmPosterDiscarded{}.EventName(), events.HandlerFunc(p.handlePosterDiscarded))
}

func (p *PosterCleanup) handleFilmDeleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FilmDeleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.PosterURL == "" {
		return nil
	}
	p.log.Info("removing poster of deleted film", "filmId", e.FilmID)
	return p.remover.Remove(ctx, e.PosterURL)
}

func (p *PosterCleanup) handlePosterReplaced(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FilmPosterReplaced)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	p.log.Info("removing replaced poster", "filmId", e.FilmID)
	return p.remover.Remove(ctx, e.PreviousURL)
}

func (p *PosterCleanup) handlePosterDiscarded(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FilmPosterDiscarded)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	p.log.Info("removing discarded poster", "filmId", e.FilmID)
	return p.remover.Remove(ctx, e.URL)
}
