package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/gigshift-attendance-go/internal/service/attendance"
	confirmationService "github.com/cmlabs-hris/gigshift-attendance-go/internal/service/confirmation"
	locationService "github.com/cmlabs-hris/gigshift-attendance-go/internal/service/location"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			slog.Error("Failed to apply schema", "error", err)
			os.Exit(1)
		}
		slog.Info("Database schema applied")
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	applicationRepo := postgresql.NewApplicationRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		eventRepo,
		applicationRepo,
		nil,
		attendanceService.NewHubPublisher(hub),
	)
	locationSvc := locationService.NewLocationService(
		locationRepo,
		eventRepo,
		applicationRepo,
		attendanceRepo,
		cfg.Geofence.DefaultRadiusMeters,
	)
	confirmationSvc := confirmationService.NewConfirmationService(
		eventRepo,
		applicationRepo,
		attendanceRepo,
		locationRepo,
		cfg.Geofence.DefaultRadiusMeters,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	locationHandler := appHTTP.NewLocationHandler(locationSvc)
	confirmationHandler := appHTTP.NewConfirmationHandler(confirmationSvc, hub)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		attendanceHandler,
		locationHandler,
		confirmationHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewGaugeJobs(attendanceRepo, locationRepo).RegisterJobs(scheduler, cfg.Metrics.CollectInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// admin streams end when the signal context is cancelled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
