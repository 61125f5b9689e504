package observability

import (
	"testing"

	"github.com/axel-paillaud/ticketsync/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_ENABLED", "")

	cfg := LoadConfig(config.Config{AppName: "ticketsync"})

	// No endpoint configured anywhere means no exporter is started.
	assert.False(t, cfg.OtelEnabled)
	assert.Empty(t, cfg.OtelExporterEndpoint)
	assert.Equal(t, "ticketsync", cfg.ServiceName)
}

func TestLoadConfigEnabledWhenEndpointSet(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_ENABLED", "")

	cfg := LoadConfig(config.Config{})

	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, "collector:4317", cfg.OtelExporterEndpoint)
}

func TestLoadConfigExplicitDisableWins(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_ENABLED", "false")

	cfg := LoadConfig(config.Config{})

	assert.False(t, cfg.OtelEnabled)
}
