// Package token signs and verifies bearer tokens carrying the user identity.
package token

import (
	"errors"
	"time"

	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/config"
	"film_catalog_backend/platform/httpkit"

	"github.com/golang-jwt/jwt/v5"
)

const (
	claimID       = "id"
	claimUserName = "userName"

	msgInvalidToken = "Invalid token"
)

// Manager issues and verifies HS256 tokens keyed by a process-wide secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a token manager. A zero TTL issues tokens without expiry.
func NewManager(cfg config.TokenConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.GetJWTSecret()),
		ttl:    cfg.GetJWTTTL(),
		now:    time.Now,
	}
}

// Create signs the payload into a bearer token.
func (m *Manager) Create(payload httpkit.TokenPayload) (string, error) {
	issuedAt := m.now()
	claims := jwt.MapClaims{
		claimID:       payload.ID,
		claimUserName: payload.UserName,
		"iat":         issuedAt.Unix(),
	}
	if m.ttl > 0 {
		claims["exp"] = issuedAt.Add(m.ttl).Unix()
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString(m.secret)
}

// Verify checks the signature and expiry of raw and returns its payload.
// Every failure is reported as an invalid token error.
func (m *Manager) Verify(raw string) (httpkit.TokenPayload, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return httpkit.TokenPayload{}, apperr.Wrap(apperr.KindInvalidToken, msgInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return httpkit.TokenPayload{}, apperr.InvalidToken(msgInvalidToken)
	}

	id, _ := claims[claimID].(string)
	userName, _ := claims[claimUserName].(string)
	if id == "" {
		return httpkit.TokenPayload{}, apperr.InvalidToken(msgInvalidToken)
	}

	return httpkit.TokenPayload{ID: id, UserName: userName}, nil
}

var _ httpkit.TokenVerifier = (*Manager)(nil)
