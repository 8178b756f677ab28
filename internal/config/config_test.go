package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Pin the history path so Load does not touch the real home directory.
	t.Setenv("HISTORY_PATH", filepath.Join(t.TempDir(), "history.jsonl"))
	t.Setenv("EXCHANGE_API_URL", "")
	t.Setenv("EXCHANGE_API_KEY", "")
	t.Setenv("HTTP_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
	if cfg.HTTPTimeout != defaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, defaultHTTPTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXCHANGE_API_URL", "https://rates.example.com")
	t.Setenv("EXCHANGE_API_KEY", "test-key")
	t.Setenv("HISTORY_PATH", filepath.Join(dir, "custom", "history.jsonl"))
	t.Setenv("HTTP_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.APIBaseURL != "https://rates.example.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if cfg.HistoryPath != filepath.Join(dir, "custom", "history.jsonl") {
		t.Errorf("HistoryPath = %q", cfg.HistoryPath)
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "with unit", value: "45s", want: 45 * time.Second},
		{name: "milliseconds", value: "500ms", want: 500 * time.Millisecond},
		{name: "bare seconds", value: "15", want: 15 * time.Second},
		{name: "invalid falls back", value: "soon", want: defaultHTTPTimeout},
		{name: "empty falls back", value: "", want: defaultHTTPTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getEnvDuration("TEST_DURATION", defaultHTTPTimeout); got != tt.want {
				t.Errorf("getEnvDuration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := getEnvString("TEST_STRING", "fallback"); got != "value" {
		t.Errorf("getEnvString = %q, want value", got)
	}
	t.Setenv("TEST_STRING", "")
	if got := getEnvString("TEST_STRING", "fallback"); got != "fallback" {
		t.Errorf("getEnvString = %q, want fallback", got)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := ensureDir(dir); err != nil {
		t.Fatalf("ensureDir returned error: %v", err)
	}
	// Idempotent.
	if err := ensureDir(dir); err != nil {
		t.Fatalf("ensureDir second call returned error: %v", err)
	}
	if err := ensureDir(""); err != nil {
		t.Errorf("ensureDir(\"\") returned error: %v", err)
	}
}
