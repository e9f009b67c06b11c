package handler

import (
	"film_catalog_backend/internal/films/service"
	"film_catalog_backend/internal/films/transport"
	"film_catalog_backend/internal/uploads"
	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/httpkit"
	"film_catalog_backend/platform/pagination"
	"film_catalog_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	// PosterField is the multipart field carrying a poster image.
	PosterField = "poster"

	msgInvalidRequest = "invalid request"
	msgInvalidImage   = "Not valid image file"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create adds a film owned by the caller.
// POST /film
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateFilmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, apperr.Wrap(apperr.KindBadRequest, msgInvalidRequest, err))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, err)
		return
	}

	film, err := h.svc.Create(c.Request.Context(), actorID(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, film)
}

// List returns a page of films.
// GET /film?page=&genre=
func (h *Handler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), transport.ListFilmsRequest{
		Page:    pagination.ParsePage(c.Query("page")),
		Genre:   c.Query("genre"),
		BaseURL: pagination.BaseURL(c.Request),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, page)
}

// GetByID returns one film.
// GET /film/:id
func (h *Handler) GetByID(c *gin.Context) {
	film, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, film)
}

// Update changes the provided fields of a film.
// PATCH /film/:id
func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateFilmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, apperr.Wrap(apperr.KindBadRequest, msgInvalidRequest, err))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, err)
		return
	}

	film, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, film)
}

// Delete removes a film.
// DELETE /film/:id
func (h *Handler) Delete(c *gin.Context) {
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), actorID(c), c.Param("id"))) {
		return
	}
	httpkit.NoContent(c)
}

// AddComment appends a comment by the caller.
// POST /film/:id/comment
func (h *Handler) AddComment(c *gin.Context) {
	var req transport.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, apperr.Wrap(apperr.KindBadRequest, msgInvalidRequest, err))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, err)
		return
	}

	film, err := h.svc.AddComment(c.Request.Context(), actorID(c), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, film)
}

// SetPoster stores the image published by the upload middleware.
// PATCH /film/:id/poster
func (h *Handler) SetPoster(c *gin.Context) {
	image, ok := uploads.GetImageData(c, PosterField)
	if !ok {
		httpkit.Fail(c, apperr.NotAcceptable(msgInvalidImage))
		return
	}

	film, err := h.svc.SetPoster(c.Request.Context(), c.Param("id"), transport.PosterResponse{
		URLOriginal: image.URLOriginal,
		URL:         image.URL,
		Mimetype:    image.Mimetype,
		Size:        image.Size,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, film)
}

func actorID(c *gin.Context) string {
	payload, ok := httpkit.GetTokenPayload(c)
	if !ok {
		return ""
	}
	return payload.ID
}
