package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultForecastURL is the endpoint used when FORECAST_URL is not set.
const DefaultForecastURL = "https://e75urw7oieiszbzws4gevjwvze0baaet.lambda-url.eu-west-2.on.aws/"

type AppConfig struct {
	// ForecastURL is the endpoint serving the JSON forecast array.
	ForecastURL string

	// HTTPTimeout bounds the single outbound request.
	HTTPTimeout time.Duration

	// Server mode only.
	Port            string
	RefreshInterval time.Duration

	// In-memory report retention.
	StoreMaxHistory int           // max number of reports kept (0 = unlimited)
	StoreMaxAge     time.Duration // max age of reports (0 = unlimited)

	// Throttling for manual refreshes over HTTP.
	RefreshRateLimit float64 // refreshes per second
	RefreshBurst     int
}

// fileConfig is the optional YAML file layout. Durations are strings so they
// go through the same parsing as the environment.
type fileConfig struct {
	ForecastURL      string   `yaml:"forecast_url"`
	HTTPTimeout      string   `yaml:"http_timeout"`
	Port             string   `yaml:"port"`
	RefreshInterval  string   `yaml:"refresh_interval"`
	StoreMaxHistory  *int     `yaml:"store_max_history"`
	StoreMaxAge      string   `yaml:"store_max_age"`
	RefreshRateLimit *float64 `yaml:"refresh_rate_limit"`
	RefreshBurst     *int     `yaml:"refresh_burst"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *AppConfig {
	return &AppConfig{
		ForecastURL:      DefaultForecastURL,
		HTTPTimeout:      10 * time.Second,
		Port:             "8080",
		RefreshInterval:  15 * time.Minute,
		StoreMaxHistory:  96, // roughly 24h at 15-minute intervals
		StoreMaxAge:      24 * time.Hour,
		RefreshRateLimit: 0.2,
		RefreshBurst:     1,
	}
}

// Load reads configuration from .env, an optional YAML file named by
// FORECAST_CONFIG, and the environment, in increasing precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := Defaults()

	if path := os.Getenv("FORECAST_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.ForecastURL != "" {
		c.ForecastURL = fc.ForecastURL
	}
	if fc.Port != "" {
		c.Port = fc.Port
	}
	if err := setDuration(&c.HTTPTimeout, "http_timeout", fc.HTTPTimeout); err != nil {
		return err
	}
	if err := setDuration(&c.RefreshInterval, "refresh_interval", fc.RefreshInterval); err != nil {
		return err
	}
	if err := setDuration(&c.StoreMaxAge, "store_max_age", fc.StoreMaxAge); err != nil {
		return err
	}
	if fc.StoreMaxHistory != nil {
		c.StoreMaxHistory = *fc.StoreMaxHistory
	}
	if fc.RefreshRateLimit != nil {
		c.RefreshRateLimit = *fc.RefreshRateLimit
	}
	if fc.RefreshBurst != nil {
		c.RefreshBurst = *fc.RefreshBurst
	}
	return nil
}

func (c *AppConfig) applyEnv() error {
	c.ForecastURL = getenvDefault("FORECAST_URL", c.ForecastURL)
	c.Port = getenvDefault("PORT", c.Port)

	if err := setDuration(&c.HTTPTimeout, "HTTP_TIMEOUT", os.Getenv("HTTP_TIMEOUT")); err != nil {
		return err
	}
	if err := setDuration(&c.RefreshInterval, "REFRESH_INTERVAL", os.Getenv("REFRESH_INTERVAL")); err != nil {
		return err
	}
	if err := setDuration(&c.StoreMaxAge, "STORE_MAX_AGE", os.Getenv("STORE_MAX_AGE")); err != nil {
		return err
	}

	c.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", c.StoreMaxHistory)
	c.RefreshBurst = getenvInt("REFRESH_BURST", c.RefreshBurst)

	if v := os.Getenv("REFRESH_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid REFRESH_RATE_LIMIT: %w", err)
		}
		c.RefreshRateLimit = f
	}
	return nil
}

// Validate checks that the configuration can drive a fetch.
func (c *AppConfig) Validate() error {
	u, err := url.Parse(c.ForecastURL)
	if err != nil {
		return fmt.Errorf("invalid FORECAST_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid FORECAST_URL: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid FORECAST_URL: missing host")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be greater than zero")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be greater than zero")
	}
	if c.RefreshRateLimit <= 0 {
		return fmt.Errorf("REFRESH_RATE_LIMIT must be greater than zero")
	}
	if c.RefreshBurst <= 0 {
		return fmt.Errorf("REFRESH_BURST must be greater than zero")
	}
	return nil
}

func setDuration(dst *time.Duration, name, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = d
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
