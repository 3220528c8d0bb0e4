package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/napthedev/vinuni-course-planner/internal/calendar"
	"github.com/napthedev/vinuni-course-planner/internal/config"
	"github.com/napthedev/vinuni-course-planner/internal/dataset"
	appLog "github.com/napthedev/vinuni-course-planner/internal/log"
	"github.com/napthedev/vinuni-course-planner/internal/planner"
	"github.com/napthedev/vinuni-course-planner/internal/store"
	"github.com/napthedev/vinuni-course-planner/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	debug      bool
}

func main() {
	appLog.Info("courseplanner starting", "version", "1.0.0")

	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	// .env is optional; explicit environment always wins over it.
	_ = godotenv.Load()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applyEnvOverrides(conf)
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		appLog.Error("invalid timezone; falling back to local", err, "timezone", conf.Timezone)
		loc = time.Local
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"dataset", conf.DatasetPath,
		"state_dir", conf.StateDir,
		"refresh", conf.RefreshCron,
		"window_start", conf.Calendar.StartHour,
		"window_end", conf.Calendar.EndHour,
	)

	catalog, err := dataset.Load(conf.DatasetPath)
	if err != nil {
		appLog.Error("failed to load course dataset", err, "path", conf.DatasetPath)
		os.Exit(1)
	}

	pl := planner.New(catalog, store.New(conf.StateDir), loc)

	// The scrape pipeline rewrites the dataset file out of band; reload it
	// periodically and revalidate the working set against the fresh copy.
	var runner *cron.Cron
	if conf.RefreshCron != "" {
		runner = cron.New()
		_, err := runner.AddFunc(conf.RefreshCron, func() {
			fresh, err := dataset.Load(conf.DatasetPath)
			if err != nil {
				appLog.Error("dataset reload failed, keeping previous catalog", err, "path", conf.DatasetPath)
				return
			}
			pl.ReplaceCatalog(fresh)
			appLog.Info("dataset reloaded", "records", fresh.Len())
		})
		if err != nil {
			appLog.Error("invalid refresh cron expression, periodic reload disabled", err, "refresh", conf.RefreshCron)
			runner = nil
		} else {
			runner.Start()
		}
	}

	window := calendar.Window{StartHour: conf.Calendar.StartHour, EndHour: conf.Calendar.EndHour}
	srv := &http.Server{
		Addr:    conf.Listen,
		Handler: web.NewServer(pl, window).Handler(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
			cancel()
		}
	}()

	<-ctx.Done()

	if runner != nil {
		runner.Stop()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP shutdown failed", err)
	}
	appLog.Info("courseplanner exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig
	flag.StringVar(&cfg.configPath, "config", "./config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")
	flag.Parse()
	return cfg
}

// applyEnvOverrides lets deployment environments override file config
// without editing it.
func applyEnvOverrides(conf *config.Config) {
	if v := os.Getenv("PLANNER_LISTEN"); v != "" {
		conf.Listen = v
	}
	if v := os.Getenv("PLANNER_DATASET"); v != "" {
		conf.DatasetPath = v
	}
	if v := os.Getenv("PLANNER_STATE_DIR"); v != "" {
		conf.StateDir = v
	}
	if v := os.Getenv("PLANNER_TIMEZONE"); v != "" {
		conf.Timezone = v
	}
}
