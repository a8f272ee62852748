// Command report_export writes an attendance report workbook without going
// through the HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/config"
	"choir-attendance/internal/logger"
	"choir-attendance/internal/scoring"
	"choir-attendance/internal/service"
	"choir-attendance/internal/store"

	"github.com/spf13/pflag"
)

func main() {
	configFile := pflag.String("config", "etc/config-dev.yaml", "config file")
	memberID := pflag.String("member", "", "member id for a personal report")
	cohort := pflag.Bool("cohort", false, "write the choir-wide report")
	year := pflag.Int("year", time.Now().Year(), "report year")
	month := pflag.Int("month", -1, "zero-based month (0-11); -1 for the whole year")
	out := pflag.String("out", ".", "output directory")
	pflag.Parse()

	logger.Init(config.LogConfig{Level: "warn", Console: true})

	if (*memberID == "") == !*cohort {
		log.Fatal("pass exactly one of --member or --cohort")
	}
	if *month < -1 || *month > 11 {
		log.Fatal("--month must be between 0 and 11, or -1")
	}
	w := scoring.YearWindow(*year)
	if *month >= 0 {
		w = scoring.MonthWindow(*year, time.Month(*month+1))
	}

	cfg := config.Load(*configFile)
	db, err := cfg.OpenGormDB(logger.NewGormLogger(cfg.Log.SlowSQLMs))
	if err != nil {
		log.Fatal(err)
	}
	clk := clock.Real()
	st := store.New(db, clk)
	stats := service.NewStatsService(st, scoring.NewEngine(cfg.Scoring), clk, cfg.Location())
	defer stats.Close()

	ctx := context.Background()
	var report scoring.Report
	if *cohort {
		report, err = stats.CohortReport(ctx, w)
	} else {
		report, err = stats.MemberReport(ctx, *memberID, w)
	}
	if err != nil {
		log.Fatal("build report failed:", err)
	}

	export := service.NewExportService()
	path := filepath.Join(*out, export.Filename(report))
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := export.Write(f, report); err != nil {
		f.Close()
		log.Fatal("write report failed:", err)
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	logger.Warn("report written", "path", path, "window", w.String())
}
