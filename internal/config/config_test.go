package config

import (
	"testing"
)

// TestLoadDefaults verifies the defaults when no environment is set.
func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "OPS_PORT", "GIN_MODE", "DATABASE_URL",
		"MAX_FILE_BYTES", "MAX_ROWS", "MAX_COLUMNS", "PREVIEW_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" || cfg.Server.OpsPort != "6060" {
		t.Errorf("Unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Limits.MaxFileBytes != 50*1024*1024 || cfg.Limits.MaxRows != 200000 || cfg.Limits.MaxColumns != 512 {
		t.Errorf("Unexpected limit defaults: %+v", cfg.Limits)
	}
	if cfg.Preview.DefaultLimit != 50 {
		t.Errorf("Unexpected preview default: %d", cfg.Preview.DefaultLimit)
	}
	if cfg.Database.URL != "" {
		t.Errorf("Expected persistence disabled by default, got %q", cfg.Database.URL)
	}
}

// TestLoadFromEnvironment verifies environment overrides.
func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MAX_ROWS", "1000")
	t.Setenv("PREVIEW_LIMIT", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("Expected port 9999, got %s", cfg.Server.Port)
	}
	if cfg.Limits.MaxRows != 1000 {
		t.Errorf("Expected max rows 1000, got %d", cfg.Limits.MaxRows)
	}
	if cfg.Preview.DefaultLimit != 10 {
		t.Errorf("Expected preview limit 10, got %d", cfg.Preview.DefaultLimit)
	}
}

// TestLoadRejectsInvalid verifies validation failures.
func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("MAX_ROWS", "-1")
	if _, err := Load(); err == nil {
		t.Error("Expected negative limit to be rejected")
	}

	t.Setenv("MAX_ROWS", "")
	t.Setenv("PREVIEW_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Error("Expected zero preview limit to be rejected")
	}
}
