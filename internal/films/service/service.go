package service

import (
	"context"
	"net/url"

	"film_catalog_backend/internal/events"
	"film_catalog_backend/internal/films/ports"
	"film_catalog_backend/internal/films/repository"
	"film_catalog_backend/internal/films/transport"
	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/logger"
	"film_catalog_backend/platform/pagination"
	"film_catalog_backend/platform/sanitize"
)

// PageSize is the fixed number of films per listing page.
const PageSize = 6

const msgTokenNotFound = "Token not found"

// Service implements the film catalog use cases and keeps each owner's film
// list in step with the films collection.
type Service struct {
	repo     repository.Repository
	owners   ports.OwnerDirectory
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new films service.
func New(repo repository.Repository, owners ports.OwnerDirectory, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, owners: owners, eventBus: eventBus, log: log}
}

// Create stores a film owned by actorID and links it to the owner. When the
// link cannot be written the film is removed again.
func (s *Service) Create(ctx context.Context, actorID string, req transport.CreateFilmRequest) (transport.FilmResponse, error) {
	if actorID == "" {
		return transport.FilmResponse{}, apperr.TokenNotFound(msgTokenNotFound)
	}

	owner, err := s.owners.GetOwner(ctx, actorID)
	if err != nil {
		return transport.FilmResponse{}, err
	}

	film, err := s.repo.Create(ctx, repository.Film{
		Title:    sanitize.Text(req.Title),
		Director: sanitize.Text(req.Director),
		Year:     req.Year,
		Genre:    sanitize.Text(req.Genre),
		Owner:    owner.ID,
		Comments: []repository.Comment{},
	})
	if err != nil {
		return transport.FilmResponse{}, err
	}

	if err := s.owners.LinkFilm(ctx, owner.ID, film.ID); err != nil {
		if delErr := s.repo.Delete(ctx, film.ID); delErr != nil {
			s.log.Error("failed to roll back film after link failure",
				"filmId", film.ID, "ownerId", owner.ID, "error", delErr)
		}
		return transport.FilmResponse{}, err
	}

	s.log.Info("film created", "filmId", film.ID, "ownerId", owner.ID)
	return toFilmResponse(film), nil
}

// List returns one page of films, optionally narrowed to a genre.
func (s *Service) List(ctx context.Context, req transport.ListFilmsRequest) (pagination.Page[transport.FilmResponse], error) {
	page := pagination.NormalizePage(req.Page)
	filter := repository.Filter{Genre: sanitize.Text(req.Genre)}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return pagination.Page[transport.FilmResponse]{}, err
	}

	items := []transport.FilmResponse{}
	if pagination.Offset(page, PageSize) < total {
		films, err := s.repo.Query(ctx, page, PageSize, filter)
		if err != nil {
			return pagination.Page[transport.FilmResponse]{}, err
		}
		for _, film := range films {
			items = append(items, toFilmResponse(film))
		}
	}

	// Links echo the genre exactly as the client sent it.
	return pagination.Build(items, pagination.Request{
		Page:     page,
		PageSize: PageSize,
		Total:    total,
		BaseURL:  req.BaseURL,
		Filters:  url.Values{"genre": []string{req.Genre}},
	}), nil
}

// GetByID returns a single film.
func (s *Service) GetByID(ctx context.Context, id string) (transport.FilmResponse, error) {
	film, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return transport.FilmResponse{}, err
	}
	return toFilmResponse(film), nil
}

// OwnerOf returns the owner id of a film. It backs the ownership guard.
func (s *Service) OwnerOf(ctx context.Context, id string) (string, error) {
	film, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return "", err
	}
	return film.Owner, nil
}

// Update applies the non-nil fields of req.
func (s *Service) Update(ctx context.Context, id string, req transport.UpdateFilmRequest) (transport.FilmResponse, error) {
	film, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return transport.FilmResponse{}, err
	}

	if title := sanitize.TextPtr(req.Title); title != nil {
		if *title == "" {
			return transport.FilmResponse{}, apperr.BadRequest("title must not be empty")
		}
		film.Title = *title
	}
	if director := sanitize.TextPtr(req.Director); director != nil {
		film.Director = *director
	}
	if req.Year != nil {
		film.Year = *req.Year
	}
	if genre := sanitize.TextPtr(req.Genre); genre != nil {
		film.Genre = *genre
	}

	updated, err := s.repo.Update(ctx, id, film)
	if err != nil {
		return transport.FilmResponse{}, err
	}
	return toFilmResponse(updated), nil
}

// AddComment appends a comment written by actorID.
func (s *Service) AddComment(ctx context.Context, actorID, id string, req transport.CommentRequest) (transport.FilmResponse, error) {
	if actorID == "" {
		return transport.FilmResponse{}, apperr.TokenNotFound(msgTokenNotFound)
	}

	film, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return transport.FilmResponse{}, err
	}
	author, err := s.owners.GetOwner(ctx, actorID)
	if err != nil {
		return transport.FilmResponse{}, err
	}

	film.Comments = append(film.Comments, repository.Comment{
		Comment:       sanitize.Text(req.Comment),
		OwnerID:       author.ID,
		OwnerUserName: author.UserName,
	})

	updated, err := s.repo.Update(ctx, id, film)
	if err != nil {
		return transport.FilmResponse{}, err
	}
	return toFilmResponse(updated), nil
}

// SetPoster replaces the poster of a film. The poster object is already
// published, so it is discarded again when it cannot be stored on the film.
func (s *Service) SetPoster(ctx context.Context, id string, poster transport.PosterResponse) (transport.FilmResponse, error) {
	film, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		s.discardPoster(ctx, id, poster.URL)
		return transport.FilmResponse{}, err
	}

	previous := film.Poster
	film.Poster = &repository.Poster{
		URLOriginal: poster.URLOriginal,
		URL:         poster.URL,
		Mimetype:    poster.Mimetype,
		Size:        poster.Size,
	}

	updated, err := s.repo.Update(ctx, id, film)
	if err != nil {
		s.discardPoster(ctx, id, poster.URL)
		return transport.FilmResponse{}, err
	}
	s.log.Info("film poster updated", "filmId", id, "url", poster.URL)

	if previous != nil && previous.URL != "" && previous.URL != poster.URL {
		s.eventBus.Publish(ctx, events.FilmPosterReplaced{
			BaseEvent:   events.NewBaseEvent(),
			FilmID:      id,
			PreviousURL: previous.URL,
			CurrentURL:  poster.URL,
		})
	}
	return toFilmResponse(updated), nil
}

func (s *Service) discardPoster(ctx context.Context, id, posterURL string) {
	if posterURL == "" {
		return
	}
	s.log.Warn("discarding poster that could not be stored", "filmId", id, "url", posterURL)
	s.eventBus.Publish(ctx, events.FilmPosterDiscarded{
		BaseEvent: events.NewBaseEvent(),
		FilmID:    id,
		URL:       posterURL,
	})
}

// Delete unlinks a film from its owner and removes it. A missing film is
// reported before anything is changed. When removal fails the owner link is
// restored.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if actorID == "" {
		return apperr.TokenNotFound(msgTokenNotFound)
	}

	film, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.owners.UnlinkFilm(ctx, film.Owner, film.ID); err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		s.log.Warn("film owner missing while deleting film", "filmId", film.ID, "ownerId", film.Owner)
	}

	if err := s.repo.Delete(ctx, film.ID); err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			if linkErr := s.owners.LinkFilm(ctx, film.Owner, film.ID); linkErr != nil {
				s.log.Error("failed to restore owner link after delete failure",
					"filmId", film.ID, "ownerId", film.Owner, "error", linkErr)
			}
		}
		return err
	}

	s.log.Info("film deleted", "filmId", film.ID, "ownerId", film.Owner, "actorId", actorID)

	deleted := events.FilmDeleted{
		BaseEvent: events.NewBaseEvent(),
		FilmID:    film.ID,
		OwnerID:   film.Owner,
	}
	if film.Poster != nil {
		deleted.PosterURL = film.Poster.URL
	}
	s.eventBus.Publish(ctx, deleted)
	return nil
}

func toFilmResponse(film repository.Film) transport.FilmResponse {
	comments := make([]transport.CommentResponse, 0, len(film.Comments))
	for _, c := range film.Comments {
		comments = append(comments, transport.CommentResponse{
			Comment: c.Comment,
			Owner:   transport.CommentOwner{ID: c.OwnerID, UserName: c.OwnerUserName},
		})
	}

	resp := transport.FilmResponse{
		ID:        film.ID,
		Title:     film.Title,
		Director:  film.Director,
		Year:      film.Year,
		Genre:     film.Genre,
		Owner:     film.Owner,
		Comments:  comments,
		CreatedAt: film.CreatedAt,
		UpdatedAt: film.UpdatedAt,
	}
	if film.Poster != nil {
		resp.Poster = &transport.PosterResponse{
			URLOriginal: film.Poster.URLOriginal,
			URL:         film.Poster.URL,
			Mimetype:    film.Poster.Mimetype,
			Size:        film.Poster.Size,
		}
	}
	return resp
}
