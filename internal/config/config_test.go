package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"homedex/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
	assert.Equal(t, "/data/homedex.db", cfg.DBPath)
	assert.Equal(t, "local", cfg.BlobBackend)
	assert.Equal(t, "openai", cfg.RecognitionBackend)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.MinioUseSSL)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("BLOB_BACKEND", "minio")
	t.Setenv("MINIO_ENDPOINT", "minio.internal:9000")
	t.Setenv("MINIO_USE_SSL", "1")
	t.Setenv("RECOGNITION_BACKEND", "claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := config.Load()

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "minio", cfg.BlobBackend)
	assert.Equal(t, "minio.internal:9000", cfg.MinioEndpoint)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, "claude", cfg.RecognitionBackend)
	assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
}
