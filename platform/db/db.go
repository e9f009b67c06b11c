// Package db provides document store connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"fmt"
	"time"

	"film_catalog_backend/platform/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a MongoDB client and verifies it with a primary ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.GetMongoConnectTimeout())
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.GetMongoURI()).
		SetMaxPoolSize(25).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(30 * time.Minute).
		SetServerSelectionTimeout(cfg.GetMongoConnectTimeout())

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// Database returns the configured database handle.
func Database(client *mongo.Client, cfg config.DatabaseConfig) *mongo.Database {
	return client.Database(cfg.GetMongoDatabase())
}

// ClientAdapter exposes a mongo client as a readiness probe.
type ClientAdapter struct {
	client *mongo.Client
}

// NewClientAdapter wraps the client for health checks.
func NewClientAdapter(client *mongo.Client) *ClientAdapter {
	return &ClientAdapter{client: client}
}

// Ping checks the primary is reachable.
func (a *ClientAdapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx, readpref.Primary())
}

// StaticHealth always reports healthy; used with the in-memory store.
type StaticHealth struct{}

// Ping implements the health checker contract.
func (StaticHealth) Ping(context.Context) error { return nil }
