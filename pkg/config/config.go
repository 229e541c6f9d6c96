package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Processing    ProcessingConfig
	Report        ReportConfig
	Jobs          JobsConfig
	Observability ObservabilityConfig
	Cleanup       CleanupConfig
}

// ProcessingConfig bounds document opening, chunking, and extraction.
type ProcessingConfig struct {
	MaxFileBytes     int64
	MaxChunkBytes    int64
	MaxPagesPerChunk int
	ChunkTimeout     time.Duration
	CurrencyCode     string
	PasswordFile     string
	TempDir          string
	Workers          int
}

type ReportConfig struct {
	OutputDir  string
	WriteExcel bool
	WriteCSV   bool
}

type JobsConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	QueueSize  int
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
	LogLevel       string
}

type CleanupConfig struct {
	Schedule string
	MaxAge   time.Duration
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Processing: ProcessingConfig{
			MaxFileBytes:     int64(getEnvAsInt("MAX_FILE_SIZE_MB", 100)) << 20,
			MaxChunkBytes:    int64(getEnvAsInt("MAX_CHUNK_SIZE_MB", 10)) << 20,
			MaxPagesPerChunk: getEnvAsInt("MAX_PAGES_PER_CHUNK", 50),
			ChunkTimeout:     getEnvAsDuration("CHUNK_TIMEOUT", 300*time.Second),
			CurrencyCode:     getEnv("CURRENCY", "KES"),
			PasswordFile:     getEnv("PASSWORD_FILE", "password.txt"),
			TempDir:          getEnv("TEMP_DIR", os.TempDir()),
			Workers:          getEnvAsInt("WORKERS", 4),
		},
		Report: ReportConfig{
			OutputDir:  getEnv("REPORT_DIR", "reports"),
			WriteExcel: getEnvAsBool("REPORT_EXCEL", true),
			WriteCSV:   getEnvAsBool("REPORT_CSV", false),
		},
		Jobs: JobsConfig{
			MaxRetries: getEnvAsInt("MAX_RETRIES", 3),
			RetryDelay: getEnvAsDuration("RETRY_DELAY", 60*time.Second),
			QueueSize:  getEnvAsInt("QUEUE_SIZE", 64),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
		},
		Cleanup: CleanupConfig{
			Schedule: getEnv("CLEANUP_SCHEDULE", "@hourly"),
			MaxAge:   getEnvAsDuration("CLEANUP_MAX_AGE", time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects threshold combinations the pipeline cannot run with.
func (c *Config) Validate() error {
	p := c.Processing
	if p.MaxChunkBytes <= 0 {
		return fmt.Errorf("MAX_CHUNK_SIZE_MB must be positive, got %d bytes", p.MaxChunkBytes)
	}
	if p.MaxFileBytes < p.MaxChunkBytes {
		return fmt.Errorf("MAX_FILE_SIZE_MB (%d bytes) must be at least MAX_CHUNK_SIZE_MB (%d bytes)",
			p.MaxFileBytes, p.MaxChunkBytes)
	}
	if p.MaxPagesPerChunk < 1 {
		return fmt.Errorf("MAX_PAGES_PER_CHUNK must be at least 1, got %d", p.MaxPagesPerChunk)
	}
	if p.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", p.Workers)
	}
	if c.Jobs.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative, got %d", c.Jobs.MaxRetries)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
