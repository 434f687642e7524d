package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the web service and the CLI.
// Values come from defaults, then the optional YAML file named by
// CONFIG_FILE, then environment variables.
type Config struct {
	Port            string        `yaml:"port"`
	GenieAPIURL     string        `yaml:"genie_api_url"`
	RedisURL        string        `yaml:"redis_url"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	QuotaDelay      time.Duration `yaml:"quota_delay"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min"`
	CookieSecure    bool          `yaml:"cookie_secure"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		GenieAPIURL:     "http://127.0.0.1:8000",
		SessionTTL:      24 * time.Hour,
		RequestTimeout:  120 * time.Second,
		RetryDelay:      2 * time.Second,
		QuotaDelay:      5 * time.Second,
		RateLimitPerMin: 10,
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(getenv("CONFIG_FILE")); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := overlayEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}
	return nil
}

func overlayEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("PORT", &cfg.Port)
	str("GENIE_API_URL", &cfg.GenieAPIURL)
	str("REDIS_URL", &cfg.RedisURL)

	for key, dst := range map[string]*time.Duration{
		"SESSION_TTL":     &cfg.SessionTTL,
		"REQUEST_TIMEOUT": &cfg.RequestTimeout,
		"RETRY_DELAY":     &cfg.RetryDelay,
		"QUOTA_DELAY":     &cfg.QuotaDelay,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}

	if v := strings.TrimSpace(getenv("ALLOWED_ORIGINS")); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	if v := strings.TrimSpace(getenv("RATE_LIMIT_PER_MIN")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: RATE_LIMIT_PER_MIN: %w", err)
		}
		cfg.RateLimitPerMin = n
	}

	if v := strings.TrimSpace(getenv("COOKIE_SECURE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}

	return nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if strings.TrimSpace(c.GenieAPIURL) == "" {
		errs = append(errs, errors.New("genie api url is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.RetryDelay < 0 || c.QuotaDelay < 0 {
		errs = append(errs, errors.New("retry delays must not be negative"))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("session ttl must not be negative"))
	}
	if c.RateLimitPerMin < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
