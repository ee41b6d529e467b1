// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/youruser/ratingapp/internal/chunithm"
	imagepkg "github.com/youruser/ratingapp/internal/image"
	"github.com/youruser/ratingapp/internal/layout"
)

// DefaultConstDataURL serves the community chart constants table.
const DefaultConstDataURL = "https://raw.githubusercontent.com/seathinks/test/main/chunirec.json"

// Config holds every setting the server and snapshot commands read.
type Config struct {
	Port string

	BaseURL       string
	SessionCookie string
	UserAgent     string

	ConstDataURL  string
	ConstDataFile string

	Layout      layout.Mode
	Format      imagepkg.Format
	JPEGQuality int
	OutputDir   string
	QRText      string

	FontRegularPath string
	FontBoldPath    string

	LogLevel          string
	HTTPTimeout       time.Duration
	JacketConcurrency int
}

// Load reads .env (if present) and then the process environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:            get("PORT", "8080"),
		BaseURL:         get("CHUNITHM_BASE_URL", chunithm.DefaultBaseURL),
		SessionCookie:   get("CHUNITHM_SESSION_COOKIE", ""),
		UserAgent:       get("CHUNITHM_USER_AGENT", ""),
		ConstDataURL:    get("CONST_DATA_URL", DefaultConstDataURL),
		ConstDataFile:   get("CONST_DATA_FILE", ""),
		OutputDir:       get("OUTPUT_DIR", "."),
		QRText:          get("QR_TEXT", ""),
		FontRegularPath: get("FONT_REGULAR_PATH", ""),
		FontBoldPath:    get("FONT_BOLD_PATH", ""),
		LogLevel:        get("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Layout, err = layout.ParseMode(get("LAYOUT_MODE", "stacked")); err != nil {
		return Config{}, fmt.Errorf("config: LAYOUT_MODE: %w", err)
	}
	if cfg.Format, err = imagepkg.ParseFormat(get("IMAGE_FORMAT", "png")); err != nil {
		return Config{}, fmt.Errorf("config: IMAGE_FORMAT: %w", err)
	}
	if cfg.JPEGQuality, err = strconv.Atoi(get("JPEG_QUALITY", "90")); err != nil {
		return Config{}, fmt.Errorf("config: JPEG_QUALITY: %w", err)
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return Config{}, fmt.Errorf("config: JPEG_QUALITY must be within 1..100, got %d", cfg.JPEGQuality)
	}
	if cfg.HTTPTimeout, err = time.ParseDuration(get("HTTP_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("config: HTTP_TIMEOUT: %w", err)
	}
	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("config: HTTP_TIMEOUT must be positive")
	}
	if cfg.JacketConcurrency, err = strconv.Atoi(get("JACKET_CONCURRENCY", "6")); err != nil {
		return Config{}, fmt.Errorf("config: JACKET_CONCURRENCY: %w", err)
	}
	if cfg.JacketConcurrency <= 0 {
		return Config{}, fmt.Errorf("config: JACKET_CONCURRENCY must be positive")
	}
	return cfg, nil
}

// ClientConfig is the scraper configuration derived from c.
func (c Config) ClientConfig() chunithm.ClientConfig {
	return chunithm.ClientConfig{
		BaseURL:       c.BaseURL,
		SessionCookie: c.SessionCookie,
		UserAgent:     c.UserAgent,
		Timeout:       c.HTTPTimeout,
	}
}

// Fonts loads the configured font files, or the embedded defaults when no
// path is set.
func (c Config) Fonts() (*imagepkg.Fonts, error) {
	if c.FontRegularPath == "" && c.FontBoldPath == "" {
		return imagepkg.DefaultFonts()
	}
	return imagepkg.LoadFonts(c.FontRegularPath, c.FontBoldPath)
}
