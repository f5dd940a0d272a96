package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/medilink/telehealth-scheduling/internal/api"
	"github.com/medilink/telehealth-scheduling/internal/appointment"
	"github.com/medilink/telehealth-scheduling/internal/config"
	"github.com/medilink/telehealth-scheduling/internal/db"
	"github.com/medilink/telehealth-scheduling/internal/notify"
	"github.com/medilink/telehealth-scheduling/internal/observability/metrics"
	redisclient "github.com/medilink/telehealth-scheduling/internal/redis"
	"github.com/medilink/telehealth-scheduling/pkg/logging"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("config load error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("api-server starting up", "env", cfg.Env, "http_port", cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Error("postgres connection error", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Error("redis connection error", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error("error closing redis", "error", err)
		}
	}()
	logger.Info("connected to Redis")

	reg := prometheus.DefaultRegisterer
	bookingMetrics := metrics.NewBookingMetrics(reg)
	notificationMetrics := metrics.NewNotificationMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	sender := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	dispatcher := notify.NewDispatcher(sender, notify.NewPgStore(pgPool), cfg.NotifyQueueSize, notificationMetrics, logger)

	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	go dispatcher.Run(dispatchCtx)

	repo := appointment.NewPgRepository(pgPool)
	locker := redisclient.NewRedisDoctorLocker(rdb, cfg.LockTTL)
	svc := appointment.NewService(repo, locker, dispatcher, bookingMetrics, logger)

	router := api.NewRouter(api.RouterConfig{
		Service:     svc,
		PgPool:      pgPool,
		Redis:       rdb,
		Logger:      logger,
		HTTPMetrics: httpMetrics,
		Env:         cfg.Env,
		Version:     version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-rootCtx.Done():
	}

	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Let the dispatcher drain buffered notifications before exit.
	stopDispatch()
	dispatcher.Wait()
}
