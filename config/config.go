package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Extractor ExtractorConfig
	LLM       LLMConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser sessions.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is an optional proxy URL for all sessions.
	Proxy string

	// UserAgent is the identifying string sent to listing pages.
	UserAgent string

	// Stealth enables anti-bot-detection evasions.
	Stealth bool // default: true

	// MaxSessions caps concurrently open browser sessions. Requests past
	// the cap fail fast instead of piling up Chrome processes.
	MaxSessions int // default: 5
}

// ExtractorConfig controls listing extraction behavior.
type ExtractorConfig struct {
	// PageTimeout bounds navigation + rendering of the listing page.
	PageTimeout time.Duration // default: 60s

	// ContainerTimeout bounds the wait for the listing content container.
	ContainerTimeout time.Duration // default: 10s

	// BlockedResourceTypes lists resource types to block during navigation.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string

	// ScreenshotDir, when set, receives a debug screenshot of every
	// scraped listing page.
	ScreenshotDir string
}

// LLMConfig controls the text-generation provider.
type LLMConfig struct {
	// APIKey authenticates against the provider. Required for narration.
	APIKey string

	// Model is the chat model name.
	Model string // default: "gpt-3.5-turbo"

	// BaseURL is the OpenAI-compatible API root.
	BaseURL string // default: "https://api.openai.com/v1"

	// Temperature is the sampling temperature.
	Temperature float64 // default: 0.7
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// APIKeys is the list of valid API keys. Empty list means open access.
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per identity.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("CARSCOPE_HOST", "0.0.0.0"),
			Port: envIntOr("CARSCOPE_PORT", 8080),
			Mode: envOr("CARSCOPE_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("CARSCOPE_HEADLESS", true),
			NoSandbox:  envBoolOr("CARSCOPE_NO_SANDBOX", false),
			BrowserBin: os.Getenv("CARSCOPE_BROWSER_BIN"),
			Proxy:      os.Getenv("CARSCOPE_PROXY"),
			UserAgent: envOr("CARSCOPE_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			Stealth:     envBoolOr("CARSCOPE_STEALTH", true),
			MaxSessions: envIntOr("CARSCOPE_MAX_SESSIONS", 5),
		},
		Extractor: ExtractorConfig{
			PageTimeout:      envDurationOr("CARSCOPE_PAGE_TIMEOUT", 60*time.Second),
			ContainerTimeout: envDurationOr("CARSCOPE_CONTAINER_TIMEOUT", 10*time.Second),
			BlockedResourceTypes: envSliceOr("CARSCOPE_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
			ScreenshotDir: os.Getenv("CARSCOPE_SCREENSHOT_DIR"),
		},
		LLM: LLMConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       envOr("CARSCOPE_LLM_MODEL", "gpt-3.5-turbo"),
			BaseURL:     envOr("CARSCOPE_LLM_BASE_URL", "https://api.openai.com/v1"),
			Temperature: envFloatOr("CARSCOPE_LLM_TEMPERATURE", 0.7),
		},
		Auth: AuthConfig{
			APIKeys: envSliceOr("CARSCOPE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("CARSCOPE_RATE_RPS", 2.0),
			Burst:             envIntOr("CARSCOPE_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("CARSCOPE_LOG_LEVEL", "info"),
			Format: envOr("CARSCOPE_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
