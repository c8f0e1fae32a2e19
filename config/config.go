// Package config loads service configuration from the environment. A .env
// file in the working directory is honored when present; real environment
// variables win. Per-label extraction policy is compiled in and not
// configurable here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the service configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// DetectorURL is the base URL of the detection sidecar, which serves
	// POST /predict and GET /health.
	DetectorURL string
	// ConfidenceThreshold filters detector output; detections scoring
	// below it never enter the pipeline.
	ConfidenceThreshold float64
	// MaxFileSizeMB bounds uploaded image size.
	MaxFileSizeMB int64
	// AllowedExtensions lists accepted upload extensions, lowercase with
	// leading dot.
	AllowedExtensions []string
	// OCRLanguages are the trained-data hints passed to the engine.
	OCRLanguages []string
	// CropMargin is the padding in pixels around each detection box.
	CropMargin int
	// WorkerConcurrency is the number of detections processed in parallel
	// per request.
	WorkerConcurrency int
	// CORSOrigins lists the origins allowed to call the API from a
	// browser.
	CORSOrigins []string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		DetectorURL:         getEnv("DETECTOR_URL", "http://localhost:5000"),
		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.5),
		MaxFileSizeMB:       getEnvInt64("MAX_FILE_SIZE_MB", 10),
		AllowedExtensions:   getEnvList("ALLOWED_EXTENSIONS", []string{".jpg", ".jpeg", ".png"}),
		OCRLanguages:        getEnvList("OCR_LANGUAGES", []string{"eng"}),
		CropMargin:          getEnvInt("CROP_MARGIN", 5),
		WorkerConcurrency:   getEnvInt("WORKER_CONCURRENCY", 1),
		CORSOrigins:         getEnvList("CORS_ORIGINS", []string{"*"}),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.DetectorURL == "" {
		return fmt.Errorf("DETECTOR_URL is required")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be in [0,1], got %v", c.ConfidenceThreshold)
	}
	if c.MaxFileSizeMB < 1 || c.MaxFileSizeMB > 100 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be between 1 and 100, got %d", c.MaxFileSizeMB)
	}
	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 64 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 64, got %d", c.WorkerConcurrency)
	}
	if c.CropMargin < 0 {
		return fmt.Errorf("CROP_MARGIN must not be negative, got %d", c.CropMargin)
	}
	return nil
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 { return c.MaxFileSizeMB << 20 }

// AllowedExtension reports whether the filename's extension is accepted.
func (c *Config) AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
