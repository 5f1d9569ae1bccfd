package feed

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"hero_store/internal/config"
	"hero_store/internal/domain"
	"hero_store/internal/model"
	"hero_store/internal/queue"
	"hero_store/internal/sse"
)

// Feed tells observers that the hero collection changed. It is called by the
// code that received a mutation result, never by the hero service itself.
type Feed struct {
	hub    *sse.Hub
	pub    queue.Publisher
	prefix string
	log    *zap.Logger
	now    func() time.Time
}

func New(cfg *config.Config, hub *sse.Hub, publisher queue.Publisher, logger *zap.Logger) *Feed {
	prefix := cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "hero.event"
	}
	return &Feed{
		hub:    hub,
		pub:    publisher,
		prefix: prefix,
		log:    logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Announce broadcasts the change to SSE observers and publishes it on the
// queue. Delivery failures are logged and otherwise ignored. An unknown event
// type is logged and not delivered, since observers route on it.
func (f *Feed) Announce(ctx context.Context, eventType, heroID string, hero *model.Hero) model.HeroEvent {
	event := model.HeroEvent{
		Type:   eventType,
		HeroID: heroID,
		Hero:   hero,
		At:     f.now(),
	}
	if !domain.IsValidEventType(eventType) {
		f.log.Error("hero event has unknown type", zap.String("type", eventType), zap.String("hero_id", heroID))
		return event
	}

	if !f.hub.Broadcast(event) {
		f.log.Warn("hero event dropped, hub queue full",
			zap.String("type", eventType),
			zap.String("hero_id", heroID),
		)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		f.log.Error("hero event marshal failed", zap.String("type", eventType), zap.Error(err))
		return event
	}
	if err := f.pub.Publish(ctx, payload, f.RoutingKey(eventType)); err != nil {
		f.log.Error("hero event publish failed",
			zap.String("type", eventType),
			zap.String("hero_id", heroID),
			zap.Error(err),
		)
	}
	return event
}

func (f *Feed) RoutingKey(eventType string) string {
	return f.prefix + "." + eventType
}
