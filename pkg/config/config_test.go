package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set required environment variables
	os.Setenv("ROSTER_SPREADSHEET_ID", "test-spreadsheet-id")
	defer os.Unsetenv("ROSTER_SPREADSHEET_ID")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.MyKG.MaxConns != 10 {
		t.Errorf("Expected MyKG MaxConns to be 10, got %d", cfg.MyKG.MaxConns)
	}

	if cfg.SnapshotTTL != 30*time.Minute {
		t.Errorf("Expected SnapshotTTL to be 30m, got %s", cfg.SnapshotTTL)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	// Set custom environment variables
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("ROSTER_SPREADSHEET_ID", "test-spreadsheet-id")
	os.Setenv("MYKG_DB_MAX_CONNS", "50")
	os.Setenv("SNAPSHOT_TTL", "15m")
	os.Setenv("LOG_LEVEL", "info")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("ROSTER_SPREADSHEET_ID")
		os.Unsetenv("MYKG_DB_MAX_CONNS")
		os.Unsetenv("SNAPSHOT_TTL")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.MyKG.MaxConns != 50 {
		t.Errorf("Expected MyKG MaxConns to be 50, got %d", cfg.MyKG.MaxConns)
	}

	if cfg.SnapshotTTL != 15*time.Minute {
		t.Errorf("Expected SnapshotTTL to be 15m, got %s", cfg.SnapshotTTL)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel to be info, got %s", cfg.LogLevel)
	}
}

func TestValidateMissingRosterSource(t *testing.T) {
	// No roster spreadsheet and no CSV fallback
	os.Unsetenv("ROSTER_SPREADSHEET_ID")
	os.Unsetenv("ROSTER_CSV_URL")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when no roster source is configured, got nil")
	}
}

func TestValidateRosterCSVFallback(t *testing.T) {
	os.Unsetenv("ROSTER_SPREADSHEET_ID")
	os.Setenv("ROSTER_CSV_URL", "https://docs.google.com/spreadsheets/d/abc/pub?output=csv")
	defer os.Unsetenv("ROSTER_CSV_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Sheets.RosterCSVURL == "" {
		t.Error("Expected RosterCSVURL to be set")
	}
}

func TestLoadHourMultipliers(t *testing.T) {
	os.Setenv("ROSTER_SPREADSHEET_ID", "test-spreadsheet-id")
	os.Setenv("HOUR_UNIT_MULTIPLIERS", "Kompas=2, Gramedia=0.5,broken,Zero=0")
	defer func() {
		os.Unsetenv("ROSTER_SPREADSHEET_ID")
		os.Unsetenv("HOUR_UNIT_MULTIPLIERS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.HourMultipliers) != 2 {
		t.Fatalf("Expected 2 multipliers, got %d", len(cfg.HourMultipliers))
	}
	if cfg.HourMultipliers["Kompas"] != 2 {
		t.Errorf("Expected Kompas multiplier 2, got %f", cfg.HourMultipliers["Kompas"])
	}
	if cfg.HourMultipliers["Gramedia"] != 0.5 {
		t.Errorf("Expected Gramedia multiplier 0.5, got %f", cfg.HourMultipliers["Gramedia"])
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	os.Setenv("ROSTER_SPREADSHEET_ID", "test-spreadsheet-id")
	os.Setenv("ENV", "sandbox")
	defer func() {
		os.Unsetenv("ROSTER_SPREADSHEET_ID")
		os.Unsetenv("ENV")
	}()

	_, err := Load()
	if err == nil {
		t.Error("Expected error for invalid ENV, got nil")
	}
}
