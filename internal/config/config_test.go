// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, FallbackJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.RateLimit.TrustProxy)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_IN", "7d")
	t.Setenv("CORS_ORIGIN", "http://a.test, http://b.test")
	t.Setenv("DATABASE_AUTO_MIGRATE", "false")
	t.Setenv("RATE_LIMIT_TRUST_PROXY", "true")

	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.RateLimit.TrustProxy)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(
		t,
		[]string{"http://a.test", "http://b.test"},
		cfg.CORS.AllowedOrigins,
	)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 9090\njwt:\n  issuer: school\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "school", cfg.JWT.Issuer)
}

func TestProductionRejectsFallbackSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_DRIVER", "memory")

	_, err := load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mongo")

	_, err := load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestNormalizeDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"7d", "168h0m0s"},
		{"1d", "24h0m0s"},
		{"15m", "15m"},
		{"xd", "xd"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeDuration(tt.in), tt.in)
	}
}
