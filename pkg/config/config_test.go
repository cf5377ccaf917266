package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNFromParts(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "store",
		Password: "p@ss word",
		Name:     "storefront",
		SSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN returned error: %v", err)
	}
	if !strings.HasPrefix(cfg.DSN, "postgres://store:") {
		t.Fatalf("unexpected DSN %q", cfg.DSN)
	}
	if strings.Contains(cfg.DSN, "p@ss word") {
		t.Fatalf("password should be escaped in DSN %q", cfg.DSN)
	}
}

func TestEnsureDSNPrefersExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@h:5432/db"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN returned error: %v", err)
	}
	if cfg.DSN != "postgres://u:p@h:5432/db" {
		t.Fatalf("explicit DSN must be kept, got %q", cfg.DSN)
	}
}

func TestEnsureDSNRequiresParts(t *testing.T) {
	cfg := DBConfig{}
	if err := cfg.ensureDSN(); err == nil {
		t.Fatal("expected error when neither DSN nor parts are set")
	}
}

func TestAppEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "DEV"}
	if !app.IsDev() || app.IsProd() {
		t.Fatalf("env helpers should be case-insensitive")
	}
}

func TestRefreshTokenTTL(t *testing.T) {
	jwt := JWTConfig{RefreshTokenTTLMinutes: 60}
	if jwt.RefreshTokenTTL().Minutes() != 60 {
		t.Fatalf("unexpected ttl %v", jwt.RefreshTokenTTL())
	}
	jwt.RefreshTokenTTLMinutes = 0
	if jwt.RefreshTokenTTL() != 0 {
		t.Fatalf("zero minutes must yield zero ttl")
	}
}
