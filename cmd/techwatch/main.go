package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"techwatch/internal/app"
	"techwatch/internal/config"
	"techwatch/internal/logging"
)

func main() {
	runNow := flag.Bool("run-now", false, "trigger a collection run immediately on startup")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *runNow {
		go func() {
			if err := application.Planner().TriggerNow(ctx); err != nil {
				logger.Error("initial run failed", "error", err)
			}
		}()
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
