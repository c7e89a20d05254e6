package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
	"github.com/SysAdminDoc/PillSleepTracker/internal/api"
	"github.com/SysAdminDoc/PillSleepTracker/internal/auth"
	"github.com/SysAdminDoc/PillSleepTracker/internal/config"
	"github.com/SysAdminDoc/PillSleepTracker/internal/storage"
	"github.com/SysAdminDoc/PillSleepTracker/internal/tracker"
)

type app struct {
	logger  internal.Logger
	tracker *tracker.Service
}

func (a *app) Logger() internal.Logger   { return a.logger }
func (a *app) Tracker() *tracker.Service { return a.tracker }

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	store, err := storage.NewStore(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	ctx := context.Background()
	svc := tracker.NewService(ctx, store, logger)
	a := &app{logger: logger, tracker: svc}

	provider := auth.New(cfg.Env, cfg.APIToken, cfg.AuthServiceURL, logger)
	router := api.NewRouter(a, cfg, provider)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		logger.Infof("tracker API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	// Flush pending writes on quit, whichever thread triggers it.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if err := svc.Close(); err != nil {
		logger.Errorf("storage close: %v", err)
	}
}
