package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hero_store/internal/config"
)

func TestNormalizeOTLPEndpoint(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "host and port", raw: "collector:4317", want: "collector:4317"},
		{name: "http url", raw: "http://collector:4317", want: "collector:4317"},
		{name: "https url with path", raw: "https://otel.example.com:443/v1/traces", want: "otel.example.com:443"},
		{name: "url without host", raw: "http://", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeOTLPEndpoint(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNewWithoutEndpoint(t *testing.T) {
	tracing, err := New(&config.Config{OTELServiceName: "hero-store"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, tracing.Shutdown(context.Background()))
}

func TestNewRejectsBadEndpoint(t *testing.T) {
	_, err := New(&config.Config{OTLPEndpoint: "http://"}, zap.NewNop())
	require.Error(t, err)
}
