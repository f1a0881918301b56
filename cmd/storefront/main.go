package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zmarties-lab/storefront-api/internal/auth"
	"github.com/zmarties-lab/storefront-api/internal/catalog"
	corecfg "github.com/zmarties-lab/storefront-api/internal/core/config"
	"github.com/zmarties-lab/storefront-api/internal/core/storage/postgres"
	"github.com/zmarties-lab/storefront-api/internal/geo/ipapi"
	"github.com/zmarties-lab/storefront-api/internal/media"
	"github.com/zmarties-lab/storefront-api/internal/migrations"
	"github.com/zmarties-lab/storefront-api/internal/reporting"
	"github.com/zmarties-lab/storefront-api/internal/server"
	"github.com/zmarties-lab/storefront-api/internal/tracking"
)

func main() {
	configPath := flag.String("config", "storefront.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"addr", fmtAddr(cfg.Server.Host, cfg.Server.Port),
		"mode", cfg.Server.Mode,
		"auto_migrate", cfg.Database.AutoMigrate)

	// 2. Initialize Storage (PostgreSQL)
	actionStore, err := postgres.NewActionAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer actionStore.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(actionStore.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// Product adapter shares the action adapter's connection pool.
	productStore := postgres.NewProductAdapter(actionStore.DB())

	// 3. Initialize collaborators
	resolver := ipapi.New(cfg.Geolocation.Endpoint, cfg.Geolocation.EffectiveTimeout())
	blobStore := media.NewHTTPStore(cfg.Media.Endpoint, cfg.Media.Folder, cfg.Media.EffectiveTimeout())

	// 4. Initialize Services
	authSvc := auth.NewService(auth.NewTokenManager(cfg.Auth.JWTSecret), cfg.Auth.PasswordHash)
	trackingSvc := tracking.NewService(actionStore, resolver, nil)
	reportingSvc := reporting.NewService(actionStore)
	catalogSvc := catalog.NewService(productStore, blobStore)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), actionStore.DB(), server.Options{
		Mode:          cfg.Server.Mode,
		AllowedOrigin: cfg.CORS.AllowedOrigin,
		MaxBodySizeMB: cfg.Server.MaxBodySizeMB,
	})

	authSvc.RegisterRoutes(srv.Engine)
	trackingSvc.RegisterRoutes(srv.Engine)
	catalogSvc.RegisterPublicRoutes(srv.Engine)

	admin := srv.Engine.Group("/v1/admin", authSvc.Required())
	reportingSvc.RegisterRoutes(admin)
	catalogSvc.RegisterAdminRoutes(admin)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
