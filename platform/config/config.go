// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// StoreDriverMongo persists data in MongoDB.
	StoreDriverMongo = "mongo"
	// StoreDriverMemory keeps data in process memory (tests and local runs).
	StoreDriverMemory = "memory"

	defaultMaxUploadSize = 5 << 20
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides document store connection settings.
type DatabaseConfig interface {
	GetStoreDriver() string
	GetMongoURI() string
	GetMongoDatabase() string
	GetMongoConnectTimeout() time.Duration
}

// JWTConfig provides JWT validation settings.
type JWTConfig interface {
	GetJWTSecret() string
}

// TokenConfig provides settings needed to issue tokens.
type TokenConfig interface {
	JWTConfig
	GetJWTTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinIOPublicURL() string
	GetMinioBucketPosters() string
	IsMinIOEnabled() bool
}

// UploadConfig provides settings for the multipart upload middleware.
type UploadConfig interface {
	GetUploadTempDir() string
	GetMinIOMaxFileSize() int64
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	StoreDriver         string
	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration
	JWTSecret           string
	JWTTTL              time.Duration
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinIOMaxFileSize    int64
	MinIOPublicURL      string
	MinioBucketPosters  string
	UploadTempDir       string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetStoreDriver() string                { return c.StoreDriver }
func (c *Config) GetMongoURI() string                   { return c.MongoURI }
func (c *Config) GetMongoDatabase() string              { return c.MongoDatabase }
func (c *Config) GetMongoConnectTimeout() time.Duration { return c.MongoConnectTimeout }

// TokenConfig implementation
func (c *Config) GetJWTSecret() string     { return c.JWTSecret }
func (c *Config) GetJWTTTL() time.Duration { return c.JWTTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64    { return c.MinIOMaxFileSize }
func (c *Config) GetMinIOPublicURL() string     { return c.MinIOPublicURL }
func (c *Config) GetMinioBucketPosters() string { return c.MinioBucketPosters }
func (c *Config) IsMinIOEnabled() bool          { return c.MinIOEndpoint != "" }

// UploadConfig implementation
func (c *Config) GetUploadTempDir() string { return c.UploadTempDir }

// IsTest reports whether the process runs in the test environment.
func (c *Config) IsTest() bool { return strings.EqualFold(c.Env, "test") }

// Load reads configuration from the environment (and an optional .env file).
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	defaultDriver := StoreDriverMongo
	if strings.EqualFold(env, "test") {
		defaultDriver = StoreDriverMemory
	}

	cfg := &Config{
		Env:                 env,
		HTTPAddr:            getEnv("HTTP_ADDR", ":7777"),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", defaultDriver)),
		MongoURI:            getEnv("MONGO_URI", ""),
		MongoDatabase:       getEnv("MONGO_DATABASE", "films"),
		MongoConnectTimeout: mustDuration(getEnv("MONGO_CONNECT_TIMEOUT", "10s")),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		CORSAllowAll:        getEnvBool("CORS_ALLOW_ALL", false),
		CORSOrigins:         splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		CORSAllowCreds:      getEnvBool("CORS_ALLOW_CREDENTIALS", true),
		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:         getEnvBool("MINIO_USE_SSL", false),
		MinIOMaxFileSize:    getEnvInt64("MINIO_MAX_FILE_SIZE", defaultMaxUploadSize),
		MinIOPublicURL:      getEnv("MINIO_PUBLIC_URL", ""),
		MinioBucketPosters:  getEnv("MINIO_BUCKET_POSTERS", "film-posters"),
		UploadTempDir:       getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
	}

	ttl, err := parseTTL(getEnv("JWT_TTL", "72h"))
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL = ttl
	if cfg.MongoConnectTimeout <= 0 {
		cfg.MongoConnectTimeout = 10 * time.Second
	}
	cfg.CORSAllowAll = cfg.CORSAllowAll || containsWildcard(cfg.CORSOrigins)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER=%s", StoreDriverMongo)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.MinIOEndpoint != "" && (c.MinIOAccessKey == "" || c.MinIOSecretKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

// parseTTL accepts "0" as an unbounded token lifetime.
func parseTTL(value string) (time.Duration, error) {
	if value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid JWT_TTL %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("JWT_TTL must not be negative")
	}
	return d, nil
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
