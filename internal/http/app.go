// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"film_catalog_backend/platform/config"
	"film_catalog_backend/platform/httpkit"
	"film_catalog_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (document store ping).
	Health HealthChecker
	// Tokens verifies bearer tokens for the authenticated guard.
	Tokens httpkit.TokenVerifier
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
