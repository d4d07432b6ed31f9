package telemetry

import (
	"context"
	"testing"

	"github.com/JonMunkholm/admindash/internal/config"
)

func TestSetup_NoopWhenDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{
		Enabled:  false,
		Endpoint: "localhost:4318",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{Enabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProvider(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{"host port", "192.0.2.1:4318"},
		{"url", "http://192.0.2.1:4318"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Non-routable address so no export happens.
			shutdown, err := Setup(context.Background(), config.TelemetryConfig{
				Enabled:     true,
				Endpoint:    tt.endpoint,
				Insecure:    true,
				ServiceName: "test-service",
				SampleRatio: 1,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown error: %v", err)
			}
		})
	}
}

func TestTracer_StartsSpan(t *testing.T) {
	ctx, span := Tracer().Start(context.Background(), "test")
	defer span.End()

	if ctx == nil {
		t.Fatal("Start returned nil context")
	}
}
