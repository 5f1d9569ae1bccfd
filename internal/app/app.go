package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"hero_store/internal/config"
	"hero_store/internal/queue"
	"hero_store/internal/sse"
	"hero_store/internal/telemetry"
)

type App struct {
	cfg      *config.Config
	hub      *sse.Hub
	consumer queue.Consumer
	tracing  *telemetry.Tracing
	server   *http.Server
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewApp(cfg *config.Config, hub *sse.Hub, consumer queue.Consumer, tracing *telemetry.Tracing, router *gin.Engine, logger *zap.Logger) *App {
	return &App{
		cfg:      cfg,
		hub:      hub,
		consumer: consumer,
		tracing:  tracing,
		server: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
		},
		logger: logger,
	}
}

// Run starts the SSE hub and the command consumer, then serves HTTP until
// Shutdown is called.
func (a *App) Run(ctx context.Context) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.hub.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("hero command consumer stopped", zap.Error(err))
		}
	}()

	// Streaming requests end with ctx instead of holding Shutdown open.
	a.server.BaseContext = func(net.Listener) context.Context { return ctx }

	a.logger.Info("hero store listening", zap.String("addr", a.cfg.HTTPAddr))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	shutdownErr := a.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return ctx.Err()
	}

	if err := a.tracing.Shutdown(ctx); err != nil {
		a.logger.Warn("tracing shutdown failed", zap.Error(err))
	}
	a.logger.Info("graceful shutdown completed")
	return shutdownErr
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}
