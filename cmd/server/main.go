// Package main is the entry point for the sales reporting API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"salesreports/internal/core/security"
	"salesreports/internal/domain/auth"
	"salesreports/internal/domain/salesreport"
	v1 "salesreports/internal/infrastructure/http/v1"
	"salesreports/internal/infrastructure/render"
	"salesreports/internal/infrastructure/storage/postgres"
	"salesreports/internal/infrastructure/storage/postgres/catalog_repo"
	"salesreports/internal/infrastructure/storage/postgres/migrations"
	"salesreports/internal/infrastructure/storage/postgres/sales_repo"
	"salesreports/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting sales reporting server")

	dsn := mustEnv("DATABASE_URL")

	if getEnv("AUTO_MIGRATE", "true") == "true" {
		if err := migrations.Run(dsn); err != nil {
			log.Fatalw("failed to run migrations", "error", err)
		}
		log.Info("migrations applied")
	}

	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 25); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Report pipeline ---
	orderRepo := sales_repo.NewOrderRepo(txManager)
	resolver := catalog_repo.NewResolver(txManager)
	reportService := salesreport.NewService(orderRepo, resolver)

	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		log.Fatalw("failed to initialize renderer", "error", err)
	}

	var archive salesreport.DocumentArchive
	if getEnv("REPORT_ARCHIVE_ENABLED", "true") == "true" {
		a, err := render.NewArchive(txManager)
		if err != nil {
			log.Fatalw("failed to initialize report archive", "error", err)
		}
		archive = a
	}

	var policy security.ReportPolicy = security.AllowAllPolicy{}
	if expr := getEnv("REPORT_POLICY_CEL", ""); expr != "" {
		celPolicy, err := security.NewCELPolicy(expr)
		if err != nil {
			log.Fatalw("failed to compile report policy", "error", err)
		}
		policy = celPolicy
		log.Info("report access policy enabled")
	}

	wizard := salesreport.NewWizard(reportService, renderer, archive, policy, txManager)

	// --- Auth ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Router ---
	if getEnv("APP_ENV", "development") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := v1.NewRouter(v1.RouterConfig{
		Logger:    log,
		Wizard:    wizard,
		Validator: jwtService,
		Ping: func(c *gin.Context) error {
			return pool.Ping(c.Request.Context())
		},
	})

	addr := ":" + getEnv("PORT", "8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("http server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		fmt.Printf("required environment variable %s is not set\n", key)
		os.Exit(1)
	}
	return v
}
