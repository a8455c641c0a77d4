/*
Package main - workforce platform API server entry point.

Boots configuration, logging, the database connection, and every
domain service, then serves the HTTP API until SIGINT/SIGTERM triggers
a graceful shutdown. Bootstrap order is config -> logger -> db ->
migrate -> services -> router -> http.Server -> signal-driven
shutdown.
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shiftcore/workforce/internal/api"
	"github.com/shiftcore/workforce/internal/compliance"
	"github.com/shiftcore/workforce/internal/config"
	"github.com/shiftcore/workforce/internal/database"
	"github.com/shiftcore/workforce/internal/exportx"
	"github.com/shiftcore/workforce/internal/geofence"
	"github.com/shiftcore/workforce/internal/kiosk"
	"github.com/shiftcore/workforce/internal/logger"
	"github.com/shiftcore/workforce/internal/middleware"
	"github.com/shiftcore/workforce/internal/payroll"
	"github.com/shiftcore/workforce/internal/ratelimit"
	"github.com/shiftcore/workforce/internal/reporting"
	"github.com/shiftcore/workforce/internal/scheduling"
	"github.com/shiftcore/workforce/internal/store"
	"github.com/shiftcore/workforce/internal/timeclock"
)

func main() {
	cfg, err := config.LoadAppConfig("./configs")
	if err != nil {
		log.Fatalf("failed to load application configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Env)

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.DBDriver)
	if err != nil {
		appLogger.Fatalf("failed to connect to database: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := database.Migrate(db); err != nil {
			appLogger.Warnf("migration failed: %v", err)
		}
	}

	st := store.New(db)
	rateCounter := ratelimit.New(db)
	geofenceSvc := geofence.NewService(db)
	timeclockSvc := timeclock.NewService(st, geofenceSvc)
	kioskSvc := kiosk.NewService(st, timeclockSvc, rateCounter)
	schedulingSvc := scheduling.NewService(st)
	complianceSvc := compliance.NewService(st)
	payrollSvc := payroll.NewService(st)
	exportxSvc := exportx.NewService(st)
	reportingSvc := reporting.NewService(st)

	services := &api.Services{
		Store:      st,
		Scheduling: schedulingSvc,
		Timeclock:  timeclockSvc,
		Kiosk:      kioskSvc,
		Geofence:   geofenceSvc,
		Compliance: complianceSvc,
		Payroll:    payrollSvc,
		Exportx:    exportxSvc,
		Reporting:  reportingSvc,
	}

	router := setupRouter(cfg, appLogger, services)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Infof("starting server on port %d in %s mode", cfg.ServerPort, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatalf("server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	appLogger.Info("server exited properly")
}

func setupRouter(cfg *config.AppConfig, appLogger *logrus.Logger, services *api.Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	corsMiddleware := cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.CORSAllowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Kiosk-Session", "X-Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Content-Hash"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	auth := middleware.NewAuthMiddleware(cfg.JWTSecret)
	security := middleware.NewSecurityMiddleware(cfg)

	r := api.NewRouter(services, auth, logger.GinLogger(appLogger), corsMiddleware)
	r.Use(security.Headers())
	return r
}

func splitOrigins(raw string) []string {
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
