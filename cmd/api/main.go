// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

// Command api is the entry point for the Mediashelf HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to the selected store engine (PostgreSQL or in-memory).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent, postgres only).
//  6. Wire controllers, the media item factory and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediashelf/mediashelf/internal/api"
	"github.com/mediashelf/mediashelf/internal/auth"
	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/catalog/group"
	"github.com/mediashelf/mediashelf/internal/catalog/media"
	"github.com/mediashelf/mediashelf/internal/catalog/ownplatform"
	"github.com/mediashelf/mediashelf/internal/catalog/user"
	"github.com/mediashelf/mediashelf/internal/platform/config"
	"github.com/mediashelf/mediashelf/internal/platform/constants"
	"github.com/mediashelf/mediashelf/internal/platform/migration"
	pgstore "github.com/mediashelf/mediashelf/internal/platform/postgres"
	redisstore "github.com/mediashelf/mediashelf/internal/platform/redis"
	"github.com/mediashelf/mediashelf/internal/platform/sec"
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/internal/store/memory"
	pgcoll "github.com/mediashelf/mediashelf/internal/store/postgres"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "mediashelf"))
	slog.SetDefault(log)

	log.Info("[Mediashelf] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "mediashelf"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("store_engine", cfg.StoreEngine),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL (skipped for the in-memory engine) ──────────────────
	var pool *pgxpool.Pool
	if cfg.StoreEngine == config.StoreEnginePostgres {
		pool, err = pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()
	}

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	if pool != nil {
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
	}

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	healthDeps := api.HealthDependencies{
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}
	if pool != nil {
		healthDeps.CheckDatabase = func() error {
			return pgstore.Ping(context.Background(), pool)
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 8. Store Collections ──────────────────────────────────────────────
	var (
		userCollection       store.Collection[user.User]
		categoryCollection   store.Collection[category.Category]
		groupCollection      store.Collection[group.Group]
		platformCollection   store.Collection[ownplatform.OwnPlatform]
		credentialCollection store.Collection[auth.Credential]
		bookCollection       store.Collection[media.Book]
		movieCollection      store.Collection[media.Movie]
		tvShowCollection     store.Collection[media.TvShow]
		videogameCollection  store.Collection[media.Videogame]
	)

	if pool != nil {
		userCollection = pgcoll.NewCollection(pool, user.PostgresSchema())
		categoryCollection = pgcoll.NewCollection(pool, category.PostgresSchema())
		groupCollection = pgcoll.NewCollection(pool, group.PostgresSchema())
		platformCollection = pgcoll.NewCollection(pool, ownplatform.PostgresSchema())
		credentialCollection = pgcoll.NewCollection(pool, auth.PostgresSchema())
		bookCollection = pgcoll.NewCollection(pool, media.BookPostgresSchema())
		movieCollection = pgcoll.NewCollection(pool, media.MoviePostgresSchema())
		tvShowCollection = pgcoll.NewCollection(pool, media.TvShowPostgresSchema())
		videogameCollection = pgcoll.NewCollection(pool, media.VideogamePostgresSchema())
	} else {
		userCollection = memory.NewCollection(user.Schema(), user.Clone)
		categoryCollection = memory.NewCollection(category.Schema(), category.Clone)
		groupCollection = memory.NewCollection(group.Schema(), group.Clone)
		platformCollection = memory.NewCollection(ownplatform.Schema(), ownplatform.Clone)
		credentialCollection = memory.NewCollection(auth.Schema(), auth.Clone)
		bookCollection = memory.NewCollection(media.BookSchema(), media.CloneBook)
		movieCollection = memory.NewCollection(media.MovieSchema(), media.CloneMovie)
		tvShowCollection = memory.NewCollection(media.TvShowSchema(), media.CloneTvShow)
		videogameCollection = memory.NewCollection(media.VideogameSchema(), media.CloneVideogame)
	}

	// ── 9. Query Helpers ──────────────────────────────────────────────────
	userHelper := store.NewQueryHelper(userCollection, user.Schema(), "User")
	categoryHelper := store.NewQueryHelper(categoryCollection, category.Schema(), "Category")
	groupHelper := store.NewQueryHelper(groupCollection, group.Schema(), "Group")
	platformHelper := store.NewQueryHelper(platformCollection, ownplatform.Schema(), "OwnPlatform")
	credentialHelper := store.NewQueryHelper(credentialCollection, auth.Schema(), "Credential")
	bookHelper := store.NewQueryHelper(bookCollection, media.BookSchema(), "Book")
	movieHelper := store.NewQueryHelper(movieCollection, media.MovieSchema(), "Movie")
	tvShowHelper := store.NewQueryHelper(tvShowCollection, media.TvShowSchema(), "TvShow")
	videogameHelper := store.NewQueryHelper(videogameCollection, media.VideogameSchema(), "Videogame")

	// ── 10. Domain Controllers ────────────────────────────────────────────
	userController := user.NewController(userHelper, log)
	categoryController := category.NewController(categoryHelper, userController, log)
	groupController := group.NewController(groupHelper, categoryController, log)
	platformController := ownplatform.NewController(platformHelper, categoryController, log)

	factory := media.NewFactory(categoryController)
	factory.Register(media.NewController[media.Book](bookHelper, media.BookType(), categoryController, groupController, platformController, log), nil)
	factory.Register(media.NewController[media.Movie](movieHelper, media.MovieType(), categoryController, groupController, platformController, log), nil)
	factory.Register(media.NewController[media.TvShow](tvShowHelper, media.TvShowType(), categoryController, groupController, platformController, log), nil)
	factory.Register(media.NewController[media.Videogame](videogameHelper, media.VideogameType(), categoryController, groupController, platformController, log), nil)

	// Close the dependency cycles: the factory fans cascades back out to the
	// media collections, and the entity controllers fan out to each other.
	categoryController.AttachItemCascader(factory)
	categoryController.AttachCascades(groupController, platformController)
	groupController.AttachItemDetacher(factory)
	platformController.AttachItemRewriter(factory)

	// ── 11. Auth Service ──────────────────────────────────────────────────
	sessions := auth.NewSessionStore(rdb)
	authService := auth.NewService(credentialHelper, userController, sessions, jwtSvc, log)
	verifier := auth.NewVerifier(jwtSvc, sessions)

	userController.AttachCascades(categoryController, groupController, platformController, factory, authService)

	// ── 12. HTTP Handlers ─────────────────────────────────────────────────
	mediaHandler := media.NewHandler(factory)
	groupHandler := group.NewHandler(groupController)
	platformHandler := ownplatform.NewHandler(platformController)
	categoryHandler := category.NewHandler(categoryController,
		groupHandler.Routes(), platformHandler.Routes(), mediaHandler.Routes())
	userHandler := user.NewHandler(userController, categoryHandler.Routes())

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		User:      userHandler,
	}

	// ── 13. HTTP Server ───────────────────────────────────────────────────
	// appCtx outlives startup; it stops background middleware goroutines.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	server := api.NewServer(appCtx, cfg, log, verifier, handlers)

	// ── 14. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
