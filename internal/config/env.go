package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port              string
	LogLevel          string
	LogJSON           bool
	StaticDir         string
	AllowedOrigins    []string
	RequestTimeoutSec int
	MaxUploadBytes    int64
	MaxImageSide      int

	OCREngine      string // tesseract | gemini
	OCRLanguage    string
	OCREnhanced    bool // default for enhanced_processing
	TessdataPrefix string
	AIAPIKey       string
	GenModel       string

	APIKeys            map[string]int // key -> requests per minute
	RateLimitPerMinute int
	JWTSecret          string

	DatabaseURL    string
	SslCertPath    string
	AwsAccessKey   string
	AwsSecretKey   string
	AwsRegion      string
	BucketName     string
	ArchiveWorkers int
}

// LoadConfig loads .env (if any) and the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogJSON:           getEnvBool("LOG_JSON", false),
		StaticDir:         getEnv("STATIC_DIR", "./web"),
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 60),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		MaxImageSide:      getEnvInt("MAX_IMAGE_SIDE", 1800),

		OCREngine:      strings.ToLower(getEnv("OCR_ENGINE", "tesseract")),
		OCRLanguage:    getEnv("OCR_LANGUAGE", "por"),
		OCREnhanced:    getEnvBool("OCR_ENHANCED", true),
		TessdataPrefix: getEnv("TESSDATA_PREFIX", ""),
		AIAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GenModel:       getEnv("GEN_MODEL", "gemini-1.5-flash"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		JWTSecret:          getEnv("JWT_SECRET", ""),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SslCertPath:    getEnv("SSL_CERT_PATH", ""),
		AwsAccessKey:   getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:   getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:      getEnv("AWS_REGION", "us-east-2"),
		BucketName:     getEnv("BUCKET_NAME", ""),
		ArchiveWorkers: getEnvInt("ARCHIVE_WORKERS", 2),
	}
	cfg.APIKeys = parseAPIKeys(getEnvList("API_KEYS", nil), cfg.RateLimitPerMinute)

	return cfg
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is empty"))
	}
	switch c.OCREngine {
	case "tesseract":
	case "gemini":
		if c.AIAPIKey == "" {
			errs = append(errs, errors.New("OCR_ENGINE=gemini requires GEMINI_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("OCR_ENGINE %q is not one of tesseract, gemini", c.OCREngine))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.RequestTimeoutSec <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT_SEC must be positive"))
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be positive"))
	}
	if c.BucketName != "" && (c.AwsAccessKey == "" || c.AwsSecretKey == "") {
		errs = append(errs, errors.New("BUCKET_NAME requires AWS_ACCESS_KEY and AWS_SECRET_KEY"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// DatabaseEnabled reports whether scans are persisted.
func (c *Config) DatabaseEnabled() bool { return c.DatabaseURL != "" }

// ArchiveEnabled reports whether originals are copied to S3.
func (c *Config) ArchiveEnabled() bool { return c.BucketName != "" }

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("%s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("%s=%q not a bool, using default %t", key, v, def)
		return def
	}
	return b
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseAPIKeys reads "key" or "key:limit" items.
func parseAPIKeys(items []string, defaultLimit int) map[string]int {
	if len(items) == 0 {
		return nil
	}
	keys := make(map[string]int, len(items))
	for _, item := range items {
		key, limit, found := strings.Cut(item, ":")
		n := defaultLimit
		if found {
			if v, err := strconv.Atoi(limit); err == nil && v > 0 {
				n = v
			} else {
				logrus.Warnf("API_KEYS: bad limit %q for a key, using %d", limit, defaultLimit)
			}
		}
		if key != "" {
			keys[key] = n
		}
	}
	return keys
}
