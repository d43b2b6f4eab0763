package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100.0, cfg.Geofence.DefaultRadiusMeters)
	assert.Equal(t, 30*time.Second, cfg.Metrics.CollectInterval)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.True(t, cfg.Database.Migrate)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("GEOFENCE_DEFAULT_RADIUS_METERS", "250")
	t.Setenv("METRICS_COLLECT_INTERVAL", "1m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, https://app.example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250.0, cfg.Geofence.DefaultRadiusMeters)
	assert.Equal(t, time.Minute, cfg.Metrics.CollectInterval)
	assert.Equal(t, []string{"https://admin.example.com", "https://app.example.com"}, cfg.App.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric radius", "GEOFENCE_DEFAULT_RADIUS_METERS", "wide"},
		{"zero radius", "GEOFENCE_DEFAULT_RADIUS_METERS", "0"},
		{"bad interval", "METRICS_COLLECT_INTERVAL", "often"},
		{"bad port", "DB_PORT", "five"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
}

func TestDatabaseURL_EscapesPassword(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "app", Password: "p@ss/word", Name: "gigshift", SSLMode: "disable",
	}}

	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/gigshift?sslmode=disable", cfg.DatabaseURL())
}
