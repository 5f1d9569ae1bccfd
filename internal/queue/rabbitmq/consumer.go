package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"hero_store/internal/config"
	"hero_store/internal/domain"
	"hero_store/internal/model"
	"hero_store/internal/queue"
	"hero_store/internal/service/feed"
	"hero_store/internal/service/heroes"
)

const (
	CommandCreate = "create"
	CommandUpdate = "update"
	CommandDelete = "delete"
)

var (
	errUnknownCommand = errors.New("unknown hero command")
	errIDRequired     = errors.New("hero id is required")
)

type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Consumer applies hero commands received from RabbitMQ.
type Consumer struct {
	url         string
	svc         *heroes.Service
	feed        *feed.Feed
	logger      *zap.Logger
	exchange    string
	queue       string
	routingKey  string
	consumerTag string
}

func NewConsumer(cfg *config.Config, svc *heroes.Service, changes *feed.Feed, logger *zap.Logger) queue.Consumer {
	if cfg.RabbitMQURL == "" {
		return &noopConsumer{}
	}
	return &Consumer{
		url:         cfg.RabbitMQURL,
		svc:         svc,
		feed:        changes,
		logger:      logger,
		exchange:    cfg.RabbitExchange,
		queue:       cfg.RabbitQueue,
		routingKey:  cfg.RabbitRoutingKey,
		consumerTag: cfg.RabbitConsumerTag,
	}
}

func (r *Consumer) Start(ctx context.Context) error {
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.consume_loop")
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.destination_kind", "exchange"),
		attribute.String("messaging.rabbitmq.routing_key", r.routingKey),
	)
	defer span.End()

	conn, err := amqp.Dial(r.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "channel failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "qos failed")
		return fmt.Errorf("rabbitmq qos: %w", err)
	}

	if err := ch.ExchangeDeclare(
		r.exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "exchange declare failed")
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	queueInfo, err := ch.QueueDeclare(
		r.queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "queue declare failed")
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.QueueBind(
		queueInfo.Name,
		r.routingKey,
		r.exchange,
		false,
		nil,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "queue bind failed")
		return fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	deliveries, err := ch.Consume(
		queueInfo.Name,
		r.consumerTag,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "consume failed")
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	r.logger.Info("RabbitMQ consumer started",
		zap.String("exchange", r.exchange),
		zap.String("queue", queueInfo.Name),
		zap.String("routing_key", r.routingKey),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				span.SetStatus(codes.Error, "deliveries closed")
				return errors.New("rabbitmq deliveries closed")
			}
			if err := r.handleMessage(ctx, msg); err != nil {
				span.RecordError(err)
				return err
			}
		}
	}
}

type command struct {
	Op          string  `json:"op"`
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (r *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, amqpHeaderCarrier(msg.Headers))
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.handle_message")
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.destination_kind", "exchange"),
		attribute.String("messaging.rabbitmq.routing_key", msg.RoutingKey),
	)
	defer span.End()

	var cmd command
	if err := json.Unmarshal(msg.Body, &cmd); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid json")
		r.logger.Error("rabbitmq invalid json", zap.Error(err))
		return msg.Ack(false)
	}
	span.SetAttributes(attribute.String("hero.command", cmd.Op), attribute.String("hero.id", cmd.ID))

	// The service commits a command before it hands back the future, so the
	// outcome is collected even after ctx ends. Requeueing a committed command
	// would apply it twice.
	err := r.apply(context.WithoutCancel(ctx), cmd)
	switch {
	case err == nil:
		return msg.Ack(false)
	case errors.Is(err, errUnknownCommand), errors.Is(err, errIDRequired), errors.Is(err, domain.ErrNameRequired):
		span.SetStatus(codes.Error, "invalid command")
		r.logger.Warn("rabbitmq invalid hero command",
			zap.String("op", cmd.Op),
			zap.String("hero_id", cmd.ID),
			zap.Error(err),
		)
		return msg.Ack(false)
	case errors.Is(err, domain.ErrHeroNotFound):
		span.SetStatus(codes.Error, "hero not found")
		r.logger.Warn("rabbitmq hero not found", zap.String("op", cmd.Op), zap.String("hero_id", cmd.ID))
		return msg.Ack(false)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "apply command failed")
		r.logger.Error("rabbitmq apply hero command failed", zap.String("op", cmd.Op), zap.Error(err))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			r.logger.Error("rabbitmq nack failed", zap.Error(nackErr))
		}
		return nil
	}
}

func (r *Consumer) apply(ctx context.Context, cmd command) error {
	switch cmd.Op {
	case CommandCreate:
		req := model.CreateHero{}
		if cmd.Name != nil {
			req.Name = *cmd.Name
		}
		if cmd.Description != nil {
			req.Description = *cmd.Description
		}
		if err := domain.ValidateCreate(req); err != nil {
			return err
		}
		created, err := r.svc.Create(ctx, req).Await(ctx)
		if err != nil {
			return err
		}
		r.feed.Announce(ctx, domain.EventHeroCreated, created.ID, &created)
		return nil

	case CommandUpdate:
		if cmd.ID == "" {
			return errIDRequired
		}
		patch := model.HeroPatch{Name: cmd.Name, Description: cmd.Description}
		if err := domain.ValidatePatch(patch); err != nil {
			return err
		}
		updated, err := r.svc.Update(ctx, cmd.ID, patch).Await(ctx)
		if err != nil {
			return err
		}
		r.feed.Announce(ctx, domain.EventHeroUpdated, updated.ID, &updated)
		return nil

	case CommandDelete:
		if cmd.ID == "" {
			return errIDRequired
		}
		if _, err := r.svc.Delete(ctx, cmd.ID).Await(ctx); err != nil {
			return err
		}
		r.feed.Announce(ctx, domain.EventHeroDeleted, cmd.ID, nil)
		return nil

	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, cmd.Op)
	}
}
