// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/logger"
	"film_catalog_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	msgValidationFailed = "validation failed"
	msgNotAccepted      = "Not accepted"
	msgNotFound         = "resource not found"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Status  int         `json:"status,omitempty"`
	Label   string      `json:"label,omitempty"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created sends a 201 Created response with the given payload.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail forwards err to the error translation stage and stops the chain.
// Handlers and middleware never write error bodies themselves.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// HandleError forwards err when non-nil and reports whether it did.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	Fail(c, err)
	return true
}

// ErrorHandler is the centralized error translation stage. It must be
// registered before any handler that may call Fail.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := Translate(err)
		if status >= http.StatusInternalServerError && log != nil {
			log.WithContext(c.Request.Context()).
				HTTPError(c.Request.Method, c.Request.URL.Path, status, err, c.ClientIP())
		}
		c.JSON(status, body)
	}
}

// Translate maps an error to its response status and body. Validator and
// document store errors are first converted to their apperr equivalents.
func Translate(err error) (int, ErrorResponse) {
	domainErr := toDomainError(err)
	if domainErr == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}

	status := domainErr.HTTPStatus()
	return status, ErrorResponse{
		Status:  status,
		Label:   domainErr.StatusLabel(),
		Error:   domainErr.Message,
		Details: domainErr.Details,
	}
}

func toDomainError(err error) *apperr.Error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}

	if fields := validator.FieldErrors(err); fields != nil {
		return apperr.Validation(msgValidationFailed).WithDetails(fields)
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.Wrap(apperr.KindNotFound, msgNotFound, err)
	}

	// Any rejection by the store server, duplicate keys included.
	var serverErr mongo.ServerError
	if mongo.IsDuplicateKeyError(err) || errors.As(err, &serverErr) {
		return apperr.Wrap(apperr.KindNotAcceptable, msgNotAccepted, err)
	}

	return nil
}
