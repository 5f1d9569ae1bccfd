package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	heroStore, err := InitializeApp()
	if err != nil {
		log.Fatalf("init hero store: %v", err)
	}
	logger := heroStore.Logger()
	defer func() {
		_ = logger.Sync()
	}()

	runErr := make(chan error, 1)
	go func() {
		runErr <- heroStore.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-runErr:
		if err != nil {
			logger.Error("hero store stopped", zap.Error(err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := heroStore.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
