package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/config"
	"choir-attendance/internal/handler"
	"choir-attendance/internal/logger"
	"choir-attendance/internal/mailer"
	"choir-attendance/internal/middleware"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/service"
	"choir-attendance/internal/store"

	"github.com/spf13/pflag"
)

func main() {
	configFile := pflag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	pflag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	db, err := cfg.OpenGormDB(logger.NewGormLogger(cfg.Log.SlowSQLMs))
	if err != nil {
		logger.Error("db connect failed", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()
	loc := cfg.Location()
	st := store.New(db, clk)
	if err := st.Migrate(ctx); err != nil {
		logger.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	attendance := service.NewAttendanceService(st)
	stats := service.NewStatsService(st, scoring.NewEngine(cfg.Scoring), clk, loc)
	defer stats.Close()

	svc := handler.Services{
		Auth:       service.NewAuthService(st),
		Members:    service.NewMemberService(st, cfg.Auth.DefaultMemberPassword, clk, loc),
		Attendance: attendance,
		Imports:    service.NewImportService(attendance, st, clk),
		Teams:      service.NewTeamService(st),
		Stats:      stats,
		Export:     service.NewExportService(),
		Broker:     st.Broker,
	}

	if cfg.Reminder.MailAdmins && cfg.MailEnabled() {
		interval := time.Duration(cfg.Reminder.CheckIntervalMn) * time.Minute
		reminders := service.NewReminderService(stats, mailer.New(cfg.Mail), cfg.Mail.Admins, interval, clk)
		go reminders.Run(ctx)
		logger.Info("reminder mail enabled", "admins", len(cfg.Mail.Admins), "interval", interval.String())
	}

	tokens := middleware.NewTokens(cfg.Auth.JWTSecret, cfg.TokenTTL(), clk)
	srv := &http.Server{Addr: cfg.Addr(), Handler: handler.NewRouter(svc, tokens, cfg.Server.CORSOrigins)}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr(), "driver", cfg.Database.Driver, "tz", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}
