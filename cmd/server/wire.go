//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"hero_store/internal/app"
	"hero_store/internal/config"
	"hero_store/internal/http"
	"hero_store/internal/http/controller"
	"hero_store/internal/logging"
	"hero_store/internal/metrics"
	"hero_store/internal/queue/rabbitmq"
	"hero_store/internal/service/feed"
	"hero_store/internal/service/heroes"
	"hero_store/internal/sse"
	"hero_store/internal/store"
	"hero_store/internal/telemetry"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		telemetry.New,
		store.NewStore,
		metrics.New,
		wire.Bind(new(heroes.Observer), new(*metrics.Metrics)),
		heroes.NewService,
		sse.NewHub,
		rabbitmq.NewPublisher,
		feed.New,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		app.NewApp,
	)
	return &app.App{}, nil
}
