package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auction1/pto-backend-go/internal/bootstrap"
	"github.com/auction1/pto-backend-go/internal/config"
	appHTTP "github.com/auction1/pto-backend-go/internal/handler/http"
	"github.com/auction1/pto-backend-go/internal/pkg/cache"
	"github.com/auction1/pto-backend-go/internal/pkg/cron"
	"github.com/auction1/pto-backend-go/internal/pkg/jwt"
	"github.com/auction1/pto-backend-go/internal/repository/blob"
	serviceAuth "github.com/auction1/pto-backend-go/internal/service/auth"
	servicePTO "github.com/auction1/pto-backend-go/internal/service/pto"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})).With(slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, err := bootstrap.BlobStore(ctx, cfg)
	if err != nil {
		return err
	}

	userRepo, closeUsers, err := bootstrap.UserRepository(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer closeUsers()

	sheetCache, err := cache.New(cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("create sheet cache: %w", err)
	}
	defer sheetCache.Close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	ptoService := servicePTO.NewPTOService(
		blob.NewCatalogRepository(store),
		blob.NewSheetRepository(store),
		blob.NewOverlayRepository(store, loc),
		blob.NewOverrideRepository(store),
		sheetCache,
		loc,
	)

	scheduler := cron.NewScheduler()
	cron.NewPTOJobs(ptoService, JWTService, cfg.Warmup.Interval).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			LogLevel:       cfg.LogLevel(),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		JWTService,
		authService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewPTOHandler(ptoService),
		appHTTP.NewAdminHandler(authService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
