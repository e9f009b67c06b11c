package uploads

import (
	"context"
	"io"
	"sync"
	"testing"

	"film_catalog_backend/internal/events"
	"film_catalog_backend/platform/logger"
)

type recordingRemover struct {
	mu      sync.Mutex
	removed []string
}

func (r *recordingRemover) Remove(_ context.Context, publicURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, publicURL)
	return nil
}

func TestPosterCleanupRemovesOrphanedPosters(t *testing.T) {
	log := logger.NewWithWriter("test", io.Discard)
	bus := events.NewInMemoryBus(log)
	remover := &recordingRemover{}
	NewPosterCleanup(remover, log).RegisterHandlers(bus)

	ctx := context.Background()
	if err := bus.PublishSync(ctx, events.FilmDeleted{FilmID: "f1", PosterURL: "http://cdn/a.png"}); err != nil {
		t.Fatalf("publish deleted: %v", err)
	}
	if err := bus.PublishSync(ctx, events.FilmDeleted{FilmID: "f2"}); err != nil {
		t.Fatalf("publish deleted without poster: %v", err)
	}
	if err := bus.PublishSync(ctx, events.FilmPosterReplaced{FilmID: "f3", PreviousURL: "http://cdn/b.png", CurrentURL: "http://cdn/c.png"}); err != nil {
		t.Fatalf("publish replaced: %v", err)
	}

	if err := bus.PublishSync(ctx, events.FilmPosterDiscarded{FilmID: "f4", URL: "http://cdn/d.png"}); err != nil {
		t.Fatalf("publish discarded: %v", err)
	}

	want := []string{"http://cdn/a.png", "http://cdn/b.png", "http://cdn/d.png"}
	if len(remover.removed) != len(want) {
		t.Fatalf("expected %v, got %v", want, remover.removed)
	}
	for i := range want {
		if remover.removed[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, remover.removed)
		}
	}
}
