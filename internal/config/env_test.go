package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "OCR_ENGINE", "API_KEYS", "MAX_UPLOAD_BYTES", "ALLOWED_ORIGINS", "OCR_ENHANCED", "DATABASE_URL", "BUCKET_NAME"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "tesseract", cfg.OCREngine)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.True(t, cfg.OCREnhanced)
	assert.Nil(t, cfg.APIKeys)
	assert.False(t, cfg.DatabaseEnabled())
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("OCR_ENGINE", "Gemini")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("API_KEYS", "alpha, beta:5 ,gamma:oops")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("OCR_ENHANCED", "false")
	t.Setenv("MAX_IMAGE_SIDE", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "gemini", cfg.OCREngine)
	assert.Equal(t, map[string]int{"alpha": 30, "beta": 5, "gamma": 30}, cfg.APIKeys)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.False(t, cfg.OCREnhanced)
	assert.Equal(t, 1800, cfg.MaxImageSide)
}

func validConfig() *Config {
	return &Config{
		Port: "8080", LogLevel: "info", OCREngine: "tesseract",
		MaxUploadBytes: 1 << 20, RequestTimeoutSec: 60, RateLimitPerMinute: 60,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown engine", func(c *Config) { c.OCREngine = "easyocr" }, "OCR_ENGINE"},
		{"gemini without key", func(c *Config) { c.OCREngine = "gemini" }, "GEMINI_API_KEY"},
		{"bucket without credentials", func(c *Config) { c.BucketName = "b" }, "BUCKET_NAME"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"zero upload size", func(c *Config) { c.MaxUploadBytes = 0 }, "MAX_UPLOAD_BYTES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
