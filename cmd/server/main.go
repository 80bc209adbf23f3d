package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"givora.backend/internal/config"
	"givora.backend/internal/infrastructure/datasources/postgres"
	"givora.backend/internal/infrastructure/metrics"
	"givora.backend/internal/infrastructure/models"
	"givora.backend/internal/infrastructure/payment"
	"givora.backend/internal/infrastructure/repositories"
	"givora.backend/internal/infrastructure/storage"
	"givora.backend/internal/interfaces/http/handlers"
	"givora.backend/internal/interfaces/http/middleware"
	"givora.backend/internal/usecases"
	"givora.backend/pkg/jwt"
	"givora.backend/pkg/logger"
	"givora.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openDB          = postgres.NewConnection
	migrateDB       = models.AutoMigrate
	newSessionStore = redis.NewSessionStore
	newImageStore   = buildImageStore
	runServer       = serveHTTP
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(ctx, "Connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := migrateDB(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(ctx, "Database schema migrated")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	imageStore, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	gateway, err := payment.NewRazorpayClient(payment.Options{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		BaseURL:   cfg.Payment.BaseURL,
		Timeout:   cfg.Payment.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %w", err)
	}

	recorder := metrics.New()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	donationRepo := repositories.NewDonationRepository(db)
	orphanageRepo := repositories.NewOrphanageRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, sessionStore, imageStore)
	donationUsecase := usecases.NewDonationUsecase(donationRepo, uow, gateway, imageStore, recorder, cfg.Payment.Currency)
	orphanageUsecase := usecases.NewOrphanageUsecase(orphanageRepo, imageStore)

	corsHandler, err := middleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins)
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(recorder))
	r.Use(corsHandler)

	registerRoutes(r, routeDeps{
		authHandler:      handlers.NewAuthHandler(authUsecase),
		donationHandler:  handlers.NewDonationHandler(donationUsecase),
		orphanageHandler: handlers.NewOrphanageHandler(orphanageUsecase),
		healthHandler: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": sqlDB.PingContext,
			"redis":    func(ctx context.Context) error { return redis.GetClient().Ping(ctx).Err() },
		}),
		authMiddleware: middleware.AuthMiddleware(authUsecase),
		metrics:        recorder.Handler(),
	})

	// filesystem images are served by this process unless a CDN fronts them
	if cfg.Storage.Driver != "s3" && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		r.Static(cfg.Storage.PublicBaseURL, cfg.Storage.BasePath)
	}

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	logger.Info(ctx, "Givora backend starting", zap.String("port", cfg.Server.Port))
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func buildImageStore(ctx context.Context, cfg config.StorageConfig) (usecases.ImageStore, error) {
	switch cfg.Driver {
	case "s3":
		store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "fs", "":
		store, err := storage.NewFileStore(cfg.BasePath, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// serveHTTP runs the server until SIGINT or SIGTERM, then drains in-flight requests
func serveHTTP(handler http.Handler, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
