package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	LogLevel string

	// Outline syntax
	HeadlineMarker string
	ScopeMode      string // "markdown" or "plain"

	// Sessions
	MaxSessions int
	SessionTTL  time.Duration

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool

	// Operation latency window
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("MDOUTLINE_API_KEY"),

		LogLevel: envOr("LOG_LEVEL", "info"),

		HeadlineMarker: envOr("HEADLINE_MARKER", "#"),
		ScopeMode:      strings.ToLower(os.Getenv("SCOPE_MODE")),

		MaxSessions: envInt("MAX_SESSIONS", 256),
		SessionTTL:  envDuration("SESSION_TTL", 2*time.Hour),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		StatsWindow: envDuration("STATS_WINDOW", time.Hour),
	}

	// Markdown only knows '#' headings; other markers get plain scope.
	if cfg.ScopeMode == "" {
		cfg.ScopeMode = "markdown"
		if cfg.HeadlineMarker != "#" {
			cfg.ScopeMode = "plain"
		}
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 256
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MDOUTLINE_API_KEY is required")
	}
	if len(c.HeadlineMarker) != 1 || c.HeadlineMarker == " " || c.HeadlineMarker == "\t" || c.HeadlineMarker == "\n" {
		return fmt.Errorf("HEADLINE_MARKER must be a single non-space byte, got %q", c.HeadlineMarker)
	}
	switch c.ScopeMode {
	case "markdown", "plain":
	default:
		return fmt.Errorf("SCOPE_MODE must be markdown or plain, got %q", c.ScopeMode)
	}
	if c.ScopeMode == "markdown" && c.HeadlineMarker != "#" {
		return fmt.Errorf("SCOPE_MODE=markdown only recognizes '#' headlines; use SCOPE_MODE=plain with HEADLINE_MARKER %q", c.HeadlineMarker)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Marker returns the headline marker byte.
func (c Config) Marker() byte {
	if c.HeadlineMarker == "" {
		return '#'
	}
	return c.HeadlineMarker[0]
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
