package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"fairdice/internal/app"
	"fairdice/internal/config"
	"fairdice/internal/jobs"
	"fairdice/internal/logger"
	"fairdice/internal/monitoring"
	"fairdice/internal/store"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.DevLog); err != nil {
		log.Fatal(err)
	}
	defer logger.Log.Sync()

	monitoring.Init()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Log.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := jobs.New()
	manager.Register(&jobs.Pruner{Store: st, Retention: cfg.AuditRetention})

	server := app.NewServer(cfg, st)

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			logger.Log.Error("shutdown", zap.Error(err))
		}
	}()
	go manager.Start(ctx)

	logger.Log.Info("listening", zap.String("port", cfg.Port))
	if err := server.Start(); err != nil {
		logger.Log.Fatal("serve", zap.Error(err))
	}
}
