package cadmus

import (
	"context"
	"testing"
)

func TestInitTelemetryDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := InitTelemetry(LoggingSettings{})
	if err != nil {
		t.Fatalf("InitTelemetry() error = %v", err)
	}
	if shutdown == nil {
		t.Fatalf("InitTelemetry() shutdown = nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v, want nil no-op", err)
	}
}
