//go:build integration

package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"hero_store/internal/domain"
	httpserver "hero_store/internal/http"
	"hero_store/internal/http/controller"
	"hero_store/internal/metrics"
	"hero_store/internal/model"
	"hero_store/internal/queue/rabbitmq"
	"hero_store/internal/service/feed"
	"hero_store/internal/service/heroes"
	"hero_store/internal/sse"
	"hero_store/internal/store/memory"
)

func TestQueueCommandFlow(t *testing.T) {
	ginTestMode()

	ctx := context.Background()
	amqpURL, cleanup := setupRabbitMQContainer(t, ctx)
	defer cleanup()

	cfg := baseConfig()
	cfg.RabbitMQURL = amqpURL
	cfg.RabbitExchange = "heroes"
	cfg.RabbitQueue = "heroes.commands"
	cfg.RabbitRoutingKey = "hero.command.*"
	cfg.RabbitConsumerTag = "hero-store-e2e"

	logger := zap.NewNop()
	m := metrics.New()
	hub := sse.NewHub()
	svc := heroes.NewService(memory.New(logger), cfg, m)
	changes := feed.New(cfg, hub, rabbitmq.NewPublisher(cfg, logger), logger)
	consumer := rabbitmq.NewConsumer(cfg, svc, changes, logger)

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Start(consumeCtx)
	}()
	require.NoError(t, waitForConsumer(ctx, amqpURL, cfg.RabbitQueue, 5*time.Second))

	handler := controller.NewHandler(cfg, svc, changes, hub, logger)
	router := httpserver.NewRouter(cfg, handler, m, logger)

	hubCtx, hubCancel := context.WithCancel(ctx)
	defer hubCancel()
	go hub.Run(hubCtx)

	server := httptest.NewServer(router)
	defer server.Close()

	sseResp, err := http.Get(server.URL + "/heroes/events")
	require.NoError(t, err)
	defer sseResp.Body.Close()
	require.Equal(t, http.StatusOK, sseResp.StatusCode)

	reader := bufio.NewReader(sseResp.Body)
	event, _, err := readSSEFrame(reader, 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, "snapshot", event)

	// Events from our own announcements land on the exchange too; they must
	// not match the command binding.
	eventsSeen := bindEventTap(t, amqpURL, cfg.RabbitExchange, cfg.RabbitPublishPrefix+".#")

	sendCommand(t, amqpURL, cfg.RabbitExchange, "hero.command.update", map[string]string{
		"op":   "update",
		"id":   "3",
		"name": "Dark Knight Returns",
	})

	event, data, err := readSSEFrame(reader, 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, "hero", event)

	var got model.HeroEvent
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	require.Equal(t, domain.EventHeroUpdated, got.Type)
	require.Equal(t, "3", got.HeroID)
	require.Equal(t, "Dark Knight Returns", got.Hero.Name)

	select {
	case delivery := <-eventsSeen:
		require.Equal(t, cfg.RabbitPublishPrefix+"."+domain.EventHeroUpdated, delivery.RoutingKey)
	case <-time.After(5 * time.Second):
		t.Fatal("hero event was not published")
	}

	cancel()
	select {
	case <-time.After(3 * time.Second):
		t.Fatalf("consumer did not stop")
	case <-errCh:
	}
}

func sendCommand(t *testing.T, amqpURL, exchange, routingKey string, cmd map[string]string) {
	t.Helper()
	body, err := json.Marshal(cmd)
	require.NoError(t, err)

	conn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}))
}

// bindEventTap declares an exclusive queue bound to the hero event keys and
// returns its deliveries. The connection lives until the test ends.
func bindEventTap(t *testing.T, amqpURL, exchange, bindingKey string) <-chan amqp.Delivery {
	t.Helper()
	conn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ch, err := conn.Channel()
	require.NoError(t, err)

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, bindingKey, exchange, false, nil))

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)
	return deliveries
}

func waitForConsumer(ctx context.Context, amqpURL, queue string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			conn, err := amqp.Dial(amqpURL)
			if err != nil {
				continue
			}
			ch, err := conn.Channel()
			if err != nil {
				_ = conn.Close()
				continue
			}
			q, err := ch.QueueInspect(queue)
			_ = ch.Close()
			_ = conn.Close()
			if err != nil {
				continue
			}
			if q.Consumers > 0 {
				return nil
			}
		}
	}
}

func setupRabbitMQContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(2 * time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)

	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()), cleanup
}
