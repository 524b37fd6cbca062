package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.AppName != "prepdeck" {
		t.Fatalf("AppName = %q", cfg.AppName)
	}
	if cfg.APIBaseURL != "http://localhost:8001" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Fatalf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.TokenDBPath == "" {
		t.Fatal("TokenDBPath empty")
	}
	if cfg.StubPort != "8001" {
		t.Fatalf("StubPort = %q", cfg.StubPort)
	}
	if cfg.HTTPLogEnabled {
		t.Fatal("HTTPLogEnabled should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://interviews.example.com")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("TOKEN_DB_PATH", "/tmp/slot.db")
	t.Setenv("HTTP_LOG_ENABLED", "true")

	cfg := Load()

	if cfg.APIBaseURL != "https://interviews.example.com" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.TokenDBPath != "/tmp/slot.db" {
		t.Fatalf("TokenDBPath = %q", cfg.TokenDBPath)
	}
	if !cfg.HTTPLogEnabled {
		t.Fatal("HTTPLogEnabled override ignored")
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.HTTPTimeout != 60*time.Second {
		t.Fatalf("HTTPTimeout = %v, want default", cfg.HTTPTimeout)
	}
}
