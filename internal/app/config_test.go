package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/armada-fleet/armada/testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "APP_ADDR", "JWT_SECRET", "JWT_ISSUER", "JWT_TTL"} {
		// t.Setenv registers the restore; the unset makes the default apply.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
	assert.Equal(t, "armada", cfg.JWTIssuer)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsEmptySecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestLoadConfigReadsOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "spinning-rust")
	t.Setenv("JWT_TTL", "30m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "spinning-rust", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.IsProduction())
}
