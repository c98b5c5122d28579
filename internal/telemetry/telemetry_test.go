package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	p, err := New(context.Background())
	require.NoError(t, err)
	require.Nil(t, p, "provider must be disabled when the endpoint is unset")
}

func TestNilProviderIsSafe(t *testing.T) {
	t.Parallel()

	var p *Provider
	tr := p.Tracer("test")
	_, span := tr.Start(context.Background(), "op")
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
}
