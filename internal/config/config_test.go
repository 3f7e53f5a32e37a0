package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tesouraria")
	t.Setenv("AUTH_DOMAIN", "tesouraria.auth.example.com")
	t.Setenv("AUTH_AUDIENCE", "https://api.tesouraria.app")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RemoteTimeout != 10*time.Second {
		t.Errorf("Expected default remote timeout 10s, got %s", cfg.RemoteTimeout)
	}
	if cfg.ReauthMaxAge != 5*time.Minute {
		t.Errorf("Expected default reauth max age 5m, got %s", cfg.ReauthMaxAge)
	}
	if cfg.Sheets.Backend != "memory" {
		t.Errorf("Expected default sheets backend memory, got %s", cfg.Sheets.Backend)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for missing DATABASE_URL")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "99999")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for out-of-range port")
	}
}

func TestLoad_SheetDBBackendRequiresURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHEETS_BACKEND", "sheetdb")
	t.Setenv("SHEETDB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when SHEETS_BACKEND=sheetdb without SHEETDB_URL")
	}

	t.Setenv("SHEETDB_URL", "https://sheetdb.io/api/v1/abc123")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Sheets.SheetDBURL == "" {
		t.Error("Expected SheetDB URL populated")
	}
}

func TestLoad_GoogleBackendRequiresSpreadsheet(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHEETS_BACKEND", "google")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when SHEETS_BACKEND=google without GOOGLE_SPREADSHEET_ID")
	}
}

func TestLoad_UnknownSheetsBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHEETS_BACKEND", "excel")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for unknown sheets backend")
	}
}

func TestLoad_CustomDurations(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REMOTE_TIMEOUT", "3s")
	t.Setenv("REAUTH_MAX_AGE", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.RemoteTimeout != 3*time.Second {
		t.Errorf("Expected 3s remote timeout, got %s", cfg.RemoteTimeout)
	}
	if cfg.ReauthMaxAge != time.Minute {
		t.Errorf("Expected 1m reauth max age, got %s", cfg.ReauthMaxAge)
	}
}
