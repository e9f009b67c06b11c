// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import "film_catalog_backend/platform/events"

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Films Domain Events
// =============================================================================

// FilmDeleted is published after a film has been removed.
// PosterURL is empty when the film had no poster.
type FilmDeleted struct {
	BaseEvent
	FilmID    string `json:"filmId"`
	OwnerID   string `json:"ownerId"`
	PosterURL string `json:"posterUrl,omitempty"`
}

func (e FilmDeleted) EventName() string { return "films.film.deleted" }

// FilmPosterReplaced is published when a new poster supersedes an older one.
type FilmPosterReplaced struct {
	BaseEvent
	FilmID      string `json:"filmId"`
	PreviousURL string `json:"previousUrl"`
	CurrentURL  string `json:"currentUrl"`
}

func (e FilmPosterReplaced) EventName() string { return "films.poster.replaced" }

// FilmPosterDiscarded is published when an uploaded poster could not be
// attached to its film and nothing references the object.
type FilmPosterDiscarded struct {
	BaseEvent
	FilmID string `json:"filmId"`
	URL    string `json:"url"`
}

func (e FilmPosterDiscarded) EventName() string { return "films.poster.discarded" }
