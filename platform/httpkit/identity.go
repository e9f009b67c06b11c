// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import "github.com/gin-gonic/gin"

// ContextTokenPayloadKey is the gin context key for the decoded bearer token.
const ContextTokenPayloadKey = "tokenPayload"

// TokenPayload is the identity carried inside a bearer token.
// It is rebuilt from the token on every request and never persisted.
type TokenPayload struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
}

// TokenVerifier decodes and validates raw bearer tokens.
type TokenVerifier interface {
	Verify(raw string) (TokenPayload, error)
}

// SetTokenPayload attaches the decoded token to the request context.
func SetTokenPayload(c *gin.Context, payload TokenPayload) {
	c.Set(ContextTokenPayloadKey, payload)
}

// GetTokenPayload extracts the decoded token from a Gin context.
// Returns false if no authenticated guard ran for this request.
func GetTokenPayload(c *gin.Context) (*TokenPayload, bool) {
	value, ok := c.Get(ContextTokenPayloadKey)
	if !ok {
		return nil, false
	}
	payload, ok := value.(TokenPayload)
	if !ok || payload.ID == "" {
		return nil, false
	}
	return &payload, true
}
