//go:build integration

package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	rabbitImage = "rabbitmq:3.13-alpine"
	rabbitUser  = "heroes"
	rabbitPass  = "heroes"
)

func setupRabbitMQContainer(t require.TestingT, ctx context.Context) (string, func()) {
	req := testcontainers.ContainerRequest{
		Image:        rabbitImage,
		ExposedPorts: []string{"5672/tcp"},
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER": rabbitUser,
			"RABBITMQ_DEFAULT_PASS": rabbitPass,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5672/tcp"),
			wait.ForLog("Server startup complete"),
		).WithDeadline(2 * time.Minute),
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

	amqpURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", rabbitUser, rabbitPass, host, port.Port())

	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return amqpURL, cleanup
}
