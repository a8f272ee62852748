package main

import (
	"context"
	"log"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/config"
	"choir-attendance/internal/logger"
	"choir-attendance/internal/service"
	"choir-attendance/internal/store"

	"github.com/spf13/pflag"
)

func main() {
	configFile := pflag.String("config", "etc/config-dev.yaml", "config file")
	username := pflag.String("username", "admin", "admin login")
	password := pflag.String("password", "", "admin password (at least 6 characters)")
	name := pflag.String("name", "Choir Admin", "admin display name")
	pflag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	db, err := cfg.OpenGormDB(logger.NewGormLogger(cfg.Log.SlowSQLMs))
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	// Step 1: schema
	st := store.New(db, clock.Real())
	if err := st.Migrate(ctx); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// Step 2: first admin
	created, err := service.NewAuthService(st).EnsureAdmin(ctx, *username, *password, *name)
	if err != nil {
		log.Fatal("admin init failed:", err)
	}
	if created {
		logger.Info("admin created", "username", *username)
	} else {
		logger.Info("admin exists, left unchanged", "username", *username)
	}

	logger.Info("=== all done ===")
}
