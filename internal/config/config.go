package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr            string
	MetricsPath         string
	HeroLatency         time.Duration
	SSEHeartbeat        time.Duration
	RabbitMQURL         string
	RabbitExchange      string
	RabbitQueue         string
	RabbitRoutingKey    string
	RabbitConsumerTag   string
	RabbitPublishPrefix string
	OTELServiceName     string
	OTLPEndpoint        string
	OTLPInsecure        bool
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:            ":8080",
		MetricsPath:         "/metrics",
		SSEHeartbeat:        15 * time.Second,
		RabbitExchange:      "heroes",
		RabbitQueue:         "heroes.commands",
		RabbitRoutingKey:    "hero.command.*",
		RabbitConsumerTag:   "hero-store",
		RabbitPublishPrefix: "hero.event",
		OTELServiceName:     "hero-store",
		OTLPInsecure:        true,
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	if v := os.Getenv("METRICS_PATH"); v != "" {
		cfg.MetricsPath = v
	}

	if v := os.Getenv("HERO_LATENCY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.HeroLatency = time.Duration(n) * time.Millisecond
		}
	}

	if v := os.Getenv("SSE_HEARTBEAT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSEHeartbeat = time.Duration(n) * time.Second
		}
	}

	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")

	if v := os.Getenv("RABBITMQ_EXCHANGE"); v != "" {
		cfg.RabbitExchange = v
	}
	if v := os.Getenv("RABBITMQ_QUEUE"); v != "" {
		cfg.RabbitQueue = v
	}
	if v := os.Getenv("RABBITMQ_ROUTING_KEY"); v != "" {
		cfg.RabbitRoutingKey = v
	}
	if v := os.Getenv("RABBITMQ_CONSUMER_TAG"); v != "" {
		cfg.RabbitConsumerTag = v
	}
	if v := os.Getenv("RABBITMQ_PUBLISH_PREFIX"); v != "" {
		cfg.RabbitPublishPrefix = v
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.OTELServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OTLPInsecure = b
		}
	}

	return cfg
}
