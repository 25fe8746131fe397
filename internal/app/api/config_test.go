package api

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.PostgresDSN)
	assert.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	assert.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	assert.False(t, cfg.TemporalDisabled)
	assert.Equal(t, 20, cfg.PageLimits().DefaultSize)
	assert.Equal(t, 100, cfg.PageLimits().MaxSize)
	assert.Equal(t, 500, cfg.BatchSize())
	assert.Equal(t, 30*24*time.Hour, cfg.GroupRetention)
	assert.Equal(t, "local", cfg.Telemetry.Environment)
	assert.Equal(t, "info", cfg.Telemetry.LogLevel)
	assert.Equal(t, "otlp", cfg.Telemetry.TraceExporter)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(env.Options{Environment: map[string]string{
		"PORT":                       "9090",
		"POSTGRES_DSN":               "  postgres://localhost/contacts  ",
		"TEMPORAL_DISABLED":          "true",
		"CONTACTS_DEFAULT_PAGE_SIZE": "10",
		"CONTACTS_MAX_PAGE_SIZE":     "50",
		"BULK_BATCH_SIZE":            "50",
		"GROUP_PURGE_RETENTION":      "48h",
		"LOG_LEVEL":                  "debug",
		"OTEL_TRACES_EXPORTER":       "none",
	}})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost/contacts", cfg.PostgresDSN)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, 50, cfg.BatchSize())
	assert.Equal(t, 48*time.Hour, cfg.GroupRetention)
	assert.Equal(t, "debug", cfg.Telemetry.LogLevel)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig(env.Options{Environment: map[string]string{
		"CONTACTS_DEFAULT_PAGE_SIZE": "50",
		"CONTACTS_MAX_PAGE_SIZE":     "10",
		"BULK_BATCH_SIZE":            "0",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTACTS_MAX_PAGE_SIZE")
	assert.Contains(t, err.Error(), "BULK_BATCH_SIZE")

	_, err = loadConfig(env.Options{Environment: map[string]string{"CONTACTS_MAX_PAGE_SIZE": "lots"}})
	assert.Error(t, err)

	_, err = loadConfig(env.Options{Environment: map[string]string{"OTEL_TRACES_EXPORTER": "jaeger"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_TRACES_EXPORTER")
}
