package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"qrlinks/internal/auth"
	"qrlinks/internal/cache"
	"qrlinks/internal/config"
	"qrlinks/internal/domain"
	"qrlinks/internal/handler"
	"qrlinks/internal/repository/gormrepo"
	"qrlinks/internal/service"
	appLogger "qrlinks/pkg/logger"
)

func main() {
	// .env is for development; in prod everything comes from the real
	// environment.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	logger := appLogger.NewLogger()
	defer logger.Sync()
	logger.Infow("starting qrlinks")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("failed to load configuration", "error", err)
	}

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to initialize database", "error", err)
	}

	// QR image cache is optional; the service renders on the fly when
	// Redis is not configured or unreachable.
	var qrCache cache.Cache
	if cfg.RedisAddr != "" {
		qrCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warnw("redis unavailable, continuing without QR cache", "error", err)
			qrCache = nil
		}
	}

	credentials := auth.NewCredentialStore(cfg)
	tokens := auth.NewTokenService(cfg)

	linkRepo := gormrepo.NewLinkRepository(db)
	linkService := service.NewLinkService(linkRepo, qrCache, cfg, logger)

	linkHandler := handler.NewLinkHandler(linkService, cfg, logger)
	authHandler := handler.NewAuthHandler(credentials, tokens, cfg, logger)

	router := handler.NewRouter(cfg, logger, linkHandler, authHandler, tokens)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Infow("server starting", "port", cfg.ServerPort, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorw("server forced to shutdown", "error", err)
	}

	if qrCache != nil {
		if err := qrCache.Close(); err != nil {
			logger.Errorw("error closing redis connection", "error", err)
		}
	}

	logger.Infow("server exited")
}

// initDatabase opens the store for the configured mode: an embedded
// sqlite file in dev, postgres in prod with a bounded, self-recycling
// connection pool.
func initDatabase(cfg *config.Config, log *appLogger.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true, // map driver duplicate-key errors to gorm.ErrDuplicatedKey
	}

	var (
		db  *gorm.DB
		err error
	)

	if cfg.IsProduction() {
		const maxRetries = 5
		for i := 0; i < maxRetries; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
			if err == nil {
				break
			}
			log.Warnw("failed to connect to database, retrying", "attempt", i+1, "error", err)
			time.Sleep(3 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}

		sqlDB.SetMaxOpenConns(15)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)

		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	}

	if err := db.AutoMigrate(&domain.ShortLink{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	backend := "sqlite"
	if cfg.IsProduction() {
		backend = "postgres"
	}
	log.Infow("database ready", "backend", backend)
	return db, nil
}
