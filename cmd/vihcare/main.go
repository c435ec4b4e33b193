package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vihcare/vihcare/internal/config"
	v1 "github.com/vihcare/vihcare/internal/handler/v1"
	"github.com/vihcare/vihcare/internal/repository/postgres"
	"github.com/vihcare/vihcare/internal/service"
	"github.com/vihcare/vihcare/pkg/auth"
	"github.com/vihcare/vihcare/pkg/database"
	"github.com/vihcare/vihcare/pkg/logger"
	"github.com/vihcare/vihcare/pkg/metrics"
	"github.com/vihcare/vihcare/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Environment),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("vihcare")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	patientRepo := postgres.NewPatientRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, log.Named("audit"))
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, jwtManager, log.Named("auth"))
	patientSvc := service.NewPatientService(patientRepo, auditSvc, collector, log.Named("patient"))
	staffSvc := service.NewStaffService(staffRepo, auditSvc, collector, log.Named("staff"))

	ctx := context.Background()
	if err := authSvc.EnsureAdmin(ctx, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		return err
	}
	if err := staffSvc.EnsureInitialRoster(ctx); err != nil {
		return err
	}

	router := v1.NewRouter(v1.RouterDeps{
		Config:     cfg,
		Log:        log.Named("http"),
		Collector:  collector,
		JWTManager: jwtManager,

		AuthHandler:    v1.NewAuthHandler(authSvc),
		PatientHandler: v1.NewPatientHandler(patientSvc),
		StaffHandler:   v1.NewStaffHandler(staffSvc),
		StatsHandler:   v1.NewStatsHandler(patientSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("stopped")
	return nil
}
