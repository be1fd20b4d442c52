// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes Shopify credentials,
// MSG91 template expectations, the order-search retry budget, server
// timeouts, logging, rate limiting, and observability settings. Configuration
// is read once at startup and shared read-only across all requests.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// ShopifyConfig holds everything needed to reach the shop's Admin GraphQL
// endpoint plus the bounded retry budget for order searches.
type ShopifyConfig struct {
	Shop       string // SHOP, e.g. "example.myshopify.com"
	Token      string // SHOPIFY_TOKEN (admin API access token)
	APIVersion string // SHOPIFY_API_VERSION, pinned schema version

	// CallTimeout caps each upstream HTTP call; expiry counts as a
	// transient failure against the search retry budget.
	CallTimeout time.Duration

	// SearchAttempts and SearchDelay bound the order search retry loop.
	// Shopify's order index can lag the delivery event, so both webhook
	// flows re-poll at a fixed cadence before giving up.
	SearchAttempts int
	SearchDelay    time.Duration
}

// MSG91Config pins the template this relay acts on and the content slot
// that carries the rendered order name.
type MSG91Config struct {
	TemplateName string // MSG91_TEMPLATE_NAME
	OrderField   string // MSG91_ORDER_FIELD, e.g. "body_2"
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number, default 3000
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // must exceed attempts x delay or the
	// outbound handler is cut off mid-retry
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	GinMode        string // debug|release|test

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Audit log
	DBPath string // SQLite path for the webhook audit log

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Integrations
	Shopify ShopifyConfig
	MSG91   MSG91Config

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "3000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// Audit log
		DBPath: getenv("DB_PATH", "cod.db"),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Integrations
		Shopify: ShopifyConfig{
			Shop:           getenv("SHOP", ""),
			Token:          getenv("SHOPIFY_TOKEN", ""),
			APIVersion:     getenv("SHOPIFY_API_VERSION", "2026-01"),
			CallTimeout:    getdur("SHOPIFY_TIMEOUT", 10*time.Second),
			SearchAttempts: getint("ORDER_SEARCH_ATTEMPTS", 6),
			SearchDelay:    getdur("ORDER_SEARCH_DELAY", 5*time.Second),
		},
		MSG91: MSG91Config{
			TemplateName: getenv("MSG91_TEMPLATE_NAME", "cod_order_confirmation"),
			OrderField:   getenv("MSG91_ORDER_FIELD", "body_2"),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "cod-confirmation-tagging"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if strings.TrimSpace(cfg.Shopify.Shop) == "" {
		return cfg, errors.New("SHOP must not be empty")
	}
	if strings.TrimSpace(cfg.Shopify.Token) == "" {
		return cfg, errors.New("SHOPIFY_TOKEN must not be empty")
	}
	if strings.TrimSpace(cfg.Shopify.APIVersion) == "" {
		return cfg, errors.New("SHOPIFY_API_VERSION must not be empty")
	}
	if cfg.Shopify.CallTimeout <= 0 {
		return cfg, errors.New("SHOPIFY_TIMEOUT must be > 0")
	}
	if cfg.Shopify.SearchAttempts < 1 {
		return cfg, errors.New("ORDER_SEARCH_ATTEMPTS must be >= 1")
	}
	if cfg.Shopify.SearchDelay < 0 {
		return cfg, errors.New("ORDER_SEARCH_DELAY must be >= 0")
	}
	if strings.TrimSpace(cfg.MSG91.TemplateName) == "" {
		return cfg, errors.New("MSG91_TEMPLATE_NAME must not be empty")
	}
	if strings.TrimSpace(cfg.MSG91.OrderField) == "" {
		return cfg, errors.New("MSG91_ORDER_FIELD must not be empty")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
