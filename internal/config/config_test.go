package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGIN", "")
	t.Setenv("PHARMACY_NAME", "")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("MANAGER_PIN", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.PharmacyName != "Khan Medical Complex" {
		t.Fatalf("unexpected pharmacy name %q", cfg.PharmacyName)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected 480 minute ttl, got %d", cfg.AccessTokenTTLMinutes)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoadHasNoSecretDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("MANAGER_PIN", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("AUTH_SECRET must not default, got %q", cfg.AuthSecret)
	}
	if cfg.ManagerPIN != "" {
		t.Fatalf("MANAGER_PIN must not default, got %q", cfg.ManagerPIN)
	}
}

func TestLoadTrimsSecrets(t *testing.T) {
	t.Setenv("AUTH_SECRET", "  super-secret-value-0123456789abcdef  ")
	t.Setenv("MANAGER_PIN", " 739154 ")

	cfg := Load()
	if cfg.AuthSecret != "super-secret-value-0123456789abcdef" {
		t.Fatalf("expected trimmed secret, got %q", cfg.AuthSecret)
	}
	if cfg.ManagerPIN != "739154" {
		t.Fatalf("expected trimmed pin, got %q", cfg.ManagerPIN)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGIN", "https://pos.example.com")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "60")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port override, got %s", cfg.Port)
	}
	if cfg.AllowedOrigin != "https://pos.example.com" {
		t.Fatalf("expected origin override, got %s", cfg.AllowedOrigin)
	}
	if cfg.AccessTokenTTLMinutes != 60 {
		t.Fatalf("expected ttl override, got %d", cfg.AccessTokenTTLMinutes)
	}
}
