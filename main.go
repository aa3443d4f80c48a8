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

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/config"
	"github.com/kendall-kelly/complaint-desk-api/logger"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"github.com/kendall-kelly/complaint-desk-api/routes"
	"github.com/kendall-kelly/complaint-desk-api/services"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.GoEnv)
	defer log.Sync() //nolint:errcheck
	zap.ReplaceGlobals(log)

	log.Info("Starting Complaint Desk API server...", zap.String("env", cfg.GoEnv))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialise application", zap.Error(err))
	}
	defer app.close()

	if err := app.run(ctx); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
	log.Info("Server stopped")
}

// application holds the long-lived resources built at startup
type application struct {
	cfg    *config.Config
	log    *zap.Logger
	router *gin.Engine
	sweep  func()
	closer []func() error
}

// newApp connects the database, migrates, and wires the identity verifier, blob store,
// rate limiter and router from cfg
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*application, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	response.SetProduction(cfg.IsProduction())
	if err := middleware.RegisterValidators(); err != nil {
		return nil, err
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migration completed successfully")

	app := &application{cfg: cfg, log: log}
	if sqlDB, err := db.DB(); err == nil {
		app.closer = append(app.closer, sqlDB.Close)
	}

	var verifier services.IdentityVerifier
	if cfg.UsesAuth0() {
		v, err := services.NewAuth0Verifier(cfg.Auth0Domain, cfg.Auth0Audience, services.NewAuth0Service(cfg.Auth0Domain), log)
		if err != nil {
			return nil, err
		}
		verifier = v
		log.Info("Verifying Auth0 tokens", zap.String("domain", cfg.Auth0Domain))
	} else {
		verifier = services.NewHMACVerifier(cfg.JWTSecret)
		log.Warn("AUTH0_DOMAIN not set, verifying HS256 tokens signed with JWT_SECRET")
	}

	var store services.BlobStore
	if cfg.UsesS3() {
		s3Store, err := services.NewS3BlobStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = s3Store
		log.Info("Attachment uploads enabled", zap.String("bucket", cfg.AWSS3Bucket))
	} else {
		log.Warn("AWS_S3_BUCKET not set, attachment uploads are disabled")
	}

	var limiter services.RateLimiter
	switch {
	case !cfg.RateLimitEnabled:
		log.Warn("Rate limiting disabled")
	case cfg.RedisURL != "":
		redisLimiter, err := services.NewRedisRateLimiter(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := redisLimiter.Ping(ctx); err != nil {
			log.Warn("Redis is unreachable, rate limiting will fail open until it recovers", zap.Error(err))
		}
		app.closer = append(app.closer, redisLimiter.Close)
		limiter = redisLimiter
	default:
		memLimiter := services.NewMemoryRateLimiter()
		app.sweep = memLimiter.Sweep
		limiter = memLimiter
	}

	deps := routes.NewDeps(db, log, verifier, store, limiter)
	deps.CORSOrigins = cfg.CORSAllowedOrigins
	app.router = routes.Setup(deps)
	return app, nil
}

// run serves until ctx is cancelled, then drains in-flight requests
func (a *application) run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.sweep != nil {
		go func() {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					a.sweep()
				}
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server is running", zap.String("addr", "http://localhost"+srv.Addr))
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

	a.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *application) close() {
	for _, c := range a.closer {
		if err := c(); err != nil {
			a.log.Warn("Error while closing resource", zap.Error(err))
		}
	}
}
