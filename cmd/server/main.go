package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AnshRaj112/journal-backend/internal/config"
	"github.com/AnshRaj112/journal-backend/internal/database"
	"github.com/AnshRaj112/journal-backend/internal/handlers"
	"github.com/AnshRaj112/journal-backend/internal/middleware"
	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/routes"
	"github.com/AnshRaj112/journal-backend/internal/services"
	"github.com/AnshRaj112/journal-backend/pkg/clientip"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// no logger yet
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}

func newLogger(cfg *config.Config) *zap.SugaredLogger {
	var (
		base *zap.Logger
		err  error
	)
	if cfg.IsProduction() {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return base.Sugar()
}

func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	logger.Infow("connecting to PostgreSQL")
	pg, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
	if err != nil {
		return err
	}
	defer pg.Close()

	// Connect to Redis
	logger.Infow("connecting to Redis")
	rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// MongoDB connects on first use; a failed attempt is retried by the next request.
	mongoDB := database.NewMongo(cfg.MongoURI, cfg.DatabaseName(), cfg.MongoConnectTimeout, logger)
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Disconnect(dctx); err != nil {
			logger.Warnw("mongodb disconnect failed", "error", err)
		}
	}()

	ictx, cancel := context.WithTimeout(ctx, cfg.MongoConnectTimeout)
	if err := services.EnsureEntryIndexes(ictx, mongoDB); err != nil {
		logger.Warnw("failed to ensure journal entry indexes", "error", err)
	} else {
		logger.Infow("journal entry indexes ensured", "database", cfg.DatabaseName())
	}
	cancel()

	var sessions services.Sessions
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		sessions = services.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	default:
		sessions = services.NewSessionStore(rdb, cfg.SessionTTL)
	}

	store := services.NewJournalStore(services.NewMongoEntries(mongoDB), models.NewValidator())
	journal := services.NewJournalService(store, cfg.Policy(), logger)
	clientIP := clientip.For(cfg.TrustProxy)
	entryWrites := middleware.NewEntryWriteLimiter(clientIP)
	go entryWrites.Run(ctx)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(ctx, clientIP) {
			r.Use(mw)
		}
	} else {
		r.Use(middleware.NewRedisRateLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow, clientIP, logger).Middleware)
	}
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Identity(sessions, logger))

	routes.SetupRoutes(r, routes.Handlers{
		Journal:     handlers.NewJournalHandler(journal, logger),
		Auth:        handlers.NewAuthHandler(services.NewUserStore(pg), sessions, logger),
		EntryWrites: entryWrites,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("journal backend running",
			"addr", srv.Addr,
			"env", cfg.Environment,
			"auth_mode", cfg.AuthMode,
			"enforce_ownership", cfg.EnforceOwnership,
			"allow_anonymous_create", cfg.AllowAnonymousCreate,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infow("shutting down")
	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	return srv.Shutdown(sctx)
}
