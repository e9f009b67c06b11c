package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"film_catalog_backend/internal/adapters/storage"
	"film_catalog_backend/internal/auth"
	userrepo "film_catalog_backend/internal/auth/repository"
	"film_catalog_backend/internal/auth/token"
	"film_catalog_backend/internal/events"
	"film_catalog_backend/internal/films"
	filmrepo "film_catalog_backend/internal/films/repository"
	apphttp "film_catalog_backend/internal/http"
	"film_catalog_backend/internal/http/router"
	"film_catalog_backend/internal/uploads"
	"film_catalog_backend/platform/config"
	"film_catalog_backend/platform/db"
	"film_catalog_backend/platform/logger"
	"film_catalog_backend/platform/validator"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// stores groups the repositories selected by STORE_DRIVER.
type stores struct {
	users  userrepo.UserRepository
	films  filmrepo.Repository
	health apphttp.HealthChecker
	client *mongo.Client
}

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "store", cfg.GetStoreDriver())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	st, err := initStores(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize store", "error", err)
		panic("failed to initialize store: " + err.Error())
	}
	if st.client != nil {
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := st.client.Disconnect(disconnectCtx); err != nil {
				log.Warn("failed to disconnect from database", "error", err)
			}
		}()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	// Shared validator instance for dependency injection
	val := validator.New()

	// Poster uploads (MinIO); disabled when no endpoint is configured
	var posterUploads *uploads.Middleware
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, storageSvc, "film-posters", cfg.GetMinioBucketPosters())
		uploader := storage.NewFileUploader(storageSvc, cfg.GetMinioBucketPosters(), log)
		posterUploads = uploads.New(uploader, cfg, log)
		uploads.NewPosterCleanup(uploader, log).RegisterHandlers(eventBus)
		log.Info("storage service initialized", "postersBucket", cfg.GetMinioBucketPosters())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; poster uploads disabled")
	}

	tokens := token.NewManager(cfg)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule, err := auth.NewModule(st.users, tokens, val, log)
	if err != nil {
		log.Error("failed to initialize auth module", "error", err)
		panic("failed to initialize auth module: " + err.Error())
	}

	// Anti-Corruption Layer: films only depends on its own OwnerDirectory port
	filmsModule := films.NewModule(st.films, authModule.OwnerDirectory(), eventBus, posterUploads, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: st.health,
		Tokens: tokens,
		Modules: []apphttp.Module{
			authModule,
			filmsModule,
		},
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

func initStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (stores, error) {
	if cfg.GetStoreDriver() == config.StoreDriverMemory {
		log.Warn("using in-memory store; data is lost on restart")
		return stores{
			users:  userrepo.NewMemory(),
			films:  filmrepo.NewMemory(),
			health: db.StaticHealth{},
		}, nil
	}

	var client *mongo.Client
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		c, err := db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		client = c
		return nil
	}); err != nil {
		return stores{}, err
	}
	log.Info("database connection established", "database", cfg.GetMongoDatabase())

	database := db.Database(client, cfg)
	users := userrepo.New(database)
	filmStore := filmrepo.New(database)
	if err := users.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return stores{}, fmt.Errorf("user indexes: %w", err)
	}
	if err := filmStore.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return stores{}, fmt.Errorf("film indexes: %w", err)
	}

	return stores{
		users:  users,
		films:  filmStore,
		health: db.NewClientAdapter(client),
		client: client,
	}, nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
