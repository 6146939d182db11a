package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithEnvVars(t *testing.T) {
	os.Setenv("CHANNELSCOUT_API_KEY", "AIza-test")
	os.Setenv("CHANNELSCOUT_OUTPUT_DIR", "/tmp/out")
	os.Setenv("CHANNELSCOUT_MAX_PAGES_PER_UNIT", "7")
	os.Setenv("CHANNELSCOUT_HTTP_TIMEOUT", "10s")
	os.Setenv("CHANNELSCOUT_DEBUG", "true")
	defer func() {
		os.Unsetenv("CHANNELSCOUT_API_KEY")
		os.Unsetenv("CHANNELSCOUT_OUTPUT_DIR")
		os.Unsetenv("CHANNELSCOUT_MAX_PAGES_PER_UNIT")
		os.Unsetenv("CHANNELSCOUT_HTTP_TIMEOUT")
		os.Unsetenv("CHANNELSCOUT_DEBUG")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "AIza-test", cfg.APIKey)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 7, cfg.MaxPagesPerUnit)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/discovered", cfg.OutputDir)
	assert.Equal(t, "data/checkpoint.txt", cfg.CheckpointFile)
	assert.Equal(t, "data/quota_ledger.csv", cfg.LedgerFile)
	assert.Equal(t, 4, cfg.MaxPagesPerUnit)
	assert.Equal(t, int64(10000), cfg.DailyQuotaCeiling)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "8080", cfg.Port)
}

func TestRequireAPIKey(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireAPIKey())

	cfg.APIKey = "AIza-test"
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestHasS3(t *testing.T) {
	cfg := &Config{
		S3Endpoint:  "http://localhost:9000",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	}
	assert.True(t, cfg.HasS3())

	cfg.S3Endpoint = ""
	assert.False(t, cfg.HasS3())
}

func TestHasSentry(t *testing.T) {
	cfg := &Config{SentryDSN: "https://abc@sentry.example/1"}
	assert.True(t, cfg.HasSentry())

	cfg.SentryDSN = ""
	assert.False(t, cfg.HasSentry())
}
