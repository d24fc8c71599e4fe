package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.MaxConnections != 0 {
		t.Errorf("MaxConnections = %d, want 0", cfg.MaxConnections)
	}
	if cfg.HistoryLimit != 50 {
		t.Errorf("HistoryLimit = %d, want 50", cfg.HistoryLimit)
	}
	if cfg.RoomLogCapacity != 100 {
		t.Errorf("RoomLogCapacity = %d, want 100", cfg.RoomLogCapacity)
	}
	if cfg.TypingTimeout != 3*time.Second {
		t.Errorf("TypingTimeout = %v, want 3s", cfg.TypingTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("MAX_CONNECTIONS", "200")
	t.Setenv("TYPING_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "https://mario.example.com, https://luigi.example.com,")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.MaxConnections != 200 {
		t.Errorf("MaxConnections = %d, want 200", cfg.MaxConnections)
	}
	if cfg.TypingTimeout != 5*time.Second {
		t.Errorf("TypingTimeout = %v, want 5s", cfg.TypingTimeout)
	}

	want := []string{"https://mario.example.com", "https://luigi.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i, origin := range want {
		if cfg.AllowedOrigins[i] != origin {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], origin)
		}
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("MAX_CONNECTIONS", "not-a-number")
	t.Setenv("TYPING_TIMEOUT", "whenever")

	cfg := Load()

	if cfg.MaxConnections != 0 {
		t.Errorf("MaxConnections = %d, want default 0", cfg.MaxConnections)
	}
	if cfg.TypingTimeout != 3*time.Second {
		t.Errorf("TypingTimeout = %v, want default 3s", cfg.TypingTimeout)
	}
}
