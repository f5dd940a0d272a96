package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medilink/telehealth-scheduling/internal/appointment"
	"github.com/medilink/telehealth-scheduling/internal/config"
	"github.com/medilink/telehealth-scheduling/internal/db"
	"github.com/medilink/telehealth-scheduling/internal/notify"
	redisclient "github.com/medilink/telehealth-scheduling/internal/redis"
	"github.com/medilink/telehealth-scheduling/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("config load error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("reminder-worker starting up",
		"env", cfg.Env,
		"interval", cfg.WorkerInterval.String(),
		"window", cfg.ReminderWindow.String(),
	)

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

	sender := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	dispatcher := notify.NewDispatcher(sender, notify.NewPgStore(pgPool), cfg.NotifyQueueSize, nil, logger)

	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	go dispatcher.Run(dispatchCtx)

	repo := appointment.NewPgRepository(pgPool)
	locker := redisclient.NewRedisDoctorLocker(rdb, cfg.LockTTL)
	svc := appointment.NewService(repo, locker, dispatcher, nil, logger)

	// Run once at startup
	runOnce(rootCtx, svc, cfg.ReminderWindow, logger)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info("shutdown signal received, stopping reminder worker")
			stopDispatch()
			dispatcher.Wait()
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, cfg.ReminderWindow, logger)
		}
	}
}

func runOnce(ctx context.Context, svc *appointment.Service, window time.Duration, logger *logging.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	sent, err := svc.SendDueReminders(runCtx, window)
	if err != nil {
		logger.Error("reminder run error", "error", err)
		return
	}
	logger.Info("reminder run complete", "sent", sent, "duration", time.Since(start).String())
}
