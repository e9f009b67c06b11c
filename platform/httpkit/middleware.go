// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"strings"
	"time"

	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID carries the request correlation id.
	HeaderRequestID = "X-Request-ID"

	bearerPrefix = "Bearer "

	msgMissingHeader   = "Not Authorization header"
	msgMissingBearer   = "Not Bearer in Authorization header"
	msgNotOwner        = "Not authorized"
	msgMissingPayload  = "Token not found in Authorized interceptor"
	labelNotAuthorized = "Not authorized"
)

// OwnerLookup resolves the owner id of the resource addressed by id.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, id string) (string, error)
}

// OwnerLookupFunc adapts a function to OwnerLookup.
type OwnerLookupFunc func(ctx context.Context, id string) (string, error)

// OwnerOf implements OwnerLookup.
func (f OwnerLookupFunc) OwnerOf(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// RequestID assigns a correlation id to each request and exposes it to loggers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		log.WithContext(c.Request.Context()).
			HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// Logged returns the authenticated guard. It requires an
// "Authorization: Bearer <token>" header, verifies the token and stores the
// decoded payload under ContextTokenPayloadKey.
func Logged(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			Fail(c, apperr.Unauthorized(msgMissingHeader))
			return
		}

		rawToken, ok := extractBearerToken(header)
		if !ok {
			Fail(c, apperr.Unauthorized(msgMissingBearer))
			return
		}

		payload, err := verifier.Verify(rawToken)
		if err != nil {
			Fail(c, err)
			return
		}

		SetTokenPayload(c, payload)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, payload.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// OwnerOnly returns the ownership guard for the resource addressed by the
// route parameter param. It must run after Logged and never mutates the resource.
func OwnerOnly(lookup OwnerLookup, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := GetTokenPayload(c)
		if !ok {
			Fail(c, apperr.TokenNotFound(msgMissingPayload))
			return
		}

		ownerID, err := lookup.OwnerOf(c.Request.Context(), c.Param(param))
		if err != nil {
			Fail(c, err)
			return
		}

		if ownerID != payload.ID {
			Fail(c, apperr.Unauthorized(msgNotOwner).WithLabel(labelNotAuthorized))
			return
		}

		c.Next()
	}
}

func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}

	rawToken := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if rawToken == "" {
		return "", false
	}

	return rawToken, true
}
