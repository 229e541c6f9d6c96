package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(10)<<20, cfg.Processing.MaxChunkBytes)
	assert.Equal(t, int64(100)<<20, cfg.Processing.MaxFileBytes)
	assert.Equal(t, 50, cfg.Processing.MaxPagesPerChunk)
	assert.Equal(t, "KES", cfg.Processing.CurrencyCode)
	assert.Equal(t, "password.txt", cfg.Processing.PasswordFile)
	assert.Equal(t, 4, cfg.Processing.Workers)
	assert.Equal(t, 300*time.Second, cfg.Processing.ChunkTimeout)
	assert.Equal(t, 3, cfg.Jobs.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.Jobs.RetryDelay)
	assert.Equal(t, "@hourly", cfg.Cleanup.Schedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MAX_CHUNK_SIZE_MB", "5")
	t.Setenv("CURRENCY", "EUR")
	t.Setenv("WORKERS", "2")
	t.Setenv("CHUNK_TIMEOUT", "45s")
	t.Setenv("REPORT_CSV", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(5)<<20, cfg.Processing.MaxChunkBytes)
	assert.Equal(t, "EUR", cfg.Processing.CurrencyCode)
	assert.Equal(t, 2, cfg.Processing.Workers)
	assert.Equal(t, 45*time.Second, cfg.Processing.ChunkTimeout)
	assert.True(t, cfg.Report.WriteCSV)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_PAGES_PER_CHUNK", "not a number")
	t.Setenv("METRICS_ENABLED", "definitely")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Processing.MaxPagesPerChunk)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Processing: ProcessingConfig{
				MaxFileBytes:     100 << 20,
				MaxChunkBytes:    10 << 20,
				MaxPagesPerChunk: 50,
				Workers:          4,
			},
			Jobs: JobsConfig{MaxRetries: 3},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("chunk larger than file cap", func(t *testing.T) {
		cfg := base()
		cfg.Processing.MaxFileBytes = 1 << 20
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero chunk size", func(t *testing.T) {
		cfg := base()
		cfg.Processing.MaxChunkBytes = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("no workers", func(t *testing.T) {
		cfg := base()
		cfg.Processing.Workers = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative retries", func(t *testing.T) {
		cfg := base()
		cfg.Jobs.MaxRetries = -1
		assert.Error(t, cfg.Validate())
	})
}
