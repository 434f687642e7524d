package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(env(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GenieAPIURL != "http://127.0.0.1:8000" {
		t.Fatalf("GenieAPIURL = %q", cfg.GenieAPIURL)
	}
	if cfg.Port != "8080" || cfg.RetryDelay != 2*time.Second || cfg.QuotaDelay != 5*time.Second {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := "port: \"9090\"\ngenie_api_url: http://engine.internal:8000\nsession_ttl: 30m\nallowed_origins:\n  - https://a.example\nrate_limit_per_min: 4\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := load(env(map[string]string{
		"CONFIG_FILE":     path,
		"PORT":            "7070",
		"ALLOWED_ORIGINS": "https://b.example, https://c.example",
		"RETRY_DELAY":     "250ms",
		"COOKIE_SECURE":   "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "7070" {
		t.Fatalf("env should win over file, port = %q", cfg.Port)
	}
	if cfg.GenieAPIURL != "http://engine.internal:8000" {
		t.Fatalf("GenieAPIURL = %q", cfg.GenieAPIURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.RateLimitPerMin != 4 {
		t.Fatalf("RateLimitPerMin = %d", cfg.RateLimitPerMin)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://c.example" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.RetryDelay != 250*time.Millisecond || !cfg.CookieSecure {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"duration":    {"REQUEST_TIMEOUT": "soon"},
		"rate":        {"RATE_LIMIT_PER_MIN": "many"},
		"bool":        {"COOKIE_SECURE": "maybe"},
		"missing":     {"CONFIG_FILE": "/definitely/not/here.yaml"},
		"nonpositive": {"REQUEST_TIMEOUT": "0s"},
	}
	for name, m := range cases {
		if _, err := load(env(m)); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if !strings.HasPrefix(err.Error(), "config:") {
			t.Fatalf("%s: error should be prefixed, got %v", name, err)
		}
	}
}

func TestGet(t *testing.T) {
	t.Setenv("ROADTRIP_TEST_KEY", "set")
	if got := Get("ROADTRIP_TEST_KEY", "fallback"); got != "set" {
		t.Fatalf("Get = %q", got)
	}
	if got := Get("ROADTRIP_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("Get = %q", got)
	}
}
