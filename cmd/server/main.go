package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cartbook/internal/api"
	"cartbook/internal/availability"
	"cartbook/internal/booking"
	"cartbook/internal/config"
	"cartbook/internal/database"
	"cartbook/internal/events"
	"cartbook/internal/metrics"
	"cartbook/internal/session"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CARTBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	dep := cfg.ResolveDeployment()
	if dep.Name == "unconfigured" {
		logger.Warn().Msg("deployment profile not set; catalogs are empty")
	}

	db, err := database.NewDB(cfg.Database.Path, cfg.Env, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	var sessionStore session.Store
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessionStore = session.NewRedisStore(rdb)
		logger.Info().Str("address", cfg.Redis.Address).Msg("using redis session store")
	} else {
		sessionStore = session.NewMemoryStore()
		logger.Info().Msg("using in-memory session store")
	}

	sessions := session.NewManager(
		db,
		sessionStore,
		cfg.SessionTTL(),
		cfg.Session.LoginPerMinute,
		cfg.Session.LoginBurst,
		&logger,
	)

	// Every lifecycle event lands in the audit trail.
	bus := events.NewBus()
	for _, eventType := range []string{events.TypeBookingCreated, events.TypeBookingDeleted, events.TypeReturnToggled} {
		bus.Subscribe(eventType, func(e events.Event) error {
			if err := db.InsertAuditEntry(context.Background(), e.Type, e.Payload); err != nil {
				logger.Warn().Err(err).Str("type", e.Type).Msg("audit write failed")
				return err
			}
			return nil
		})
	}

	engine := availability.New(cfg.Booking.Openings, cfg.Booking.BookedSuffix)
	svc := booking.NewService(db, engine, dep, cfg.Location(), bus, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
	go backup.Start(ctx)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewHTTPServer(cfg, dep, svc, sessions, engine, &logger)
	logger.Info().
		Str("addr", cfg.HTTP.Addr).
		Str("deployment", dep.Name).
		Str("env", cfg.Env).
		Msg("cartbook started")

	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("cartbook stopped")
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("metrics server started")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
