package handler

import (
	"film_catalog_backend/internal/auth/service"
	"film_catalog_backend/internal/auth/transport"
	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/httpkit"
	"film_catalog_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const msgInvalidRequest = "invalid request"

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Register creates an account.
// POST /user/register
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, apperr.Wrap(apperr.KindBadRequest, msgInvalidRequest, err))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Fail(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, user)
}

// Login exchanges credentials for a bearer token.
// POST /user/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Fail(c, apperr.Wrap(apperr.KindBadRequest, msgInvalidRequest, err))
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID returns an account with its film ids.
// GET /user/:id
func (h *Handler) GetByID(c *gin.Context) {
	user, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, user)
}
