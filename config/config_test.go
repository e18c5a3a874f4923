package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "pplx-test", cfg.PerplexityAPIKey)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, "https://api.perplexity.ai", cfg.PerplexityBaseURL)
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_ClampsNonPositiveDurations(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("HTTP_TIMEOUT_SECONDS", 0)
	v.Set("CACHE_TTL_SECONDS", -5)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 600*time.Second, cfg.CacheTTL())
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{Env: "production"}
	assert.True(t, cfg.IsProduction())
}
