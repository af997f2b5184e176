package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MinYear != 2005 || cfg.MaxYear != 2100 {
		t.Errorf("year range = [%d, %d], want [2005, 2100]", cfg.MinYear, cfg.MaxYear)
	}
	if cfg.Database.MaxConnections != 25 {
		t.Errorf("MaxConnections = %d, want 25", cfg.Database.MaxConnections)
	}
	if cfg.Snapshot.OutputDir != "data" {
		t.Errorf("Snapshot.OutputDir = %q, want data", cfg.Snapshot.OutputDir)
	}
	if cfg.Version != "test" {
		t.Errorf("Version = %q, want test", cfg.Version)
	}
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
port: "9000"
database:
  host: db.internal
snapshot:
  top_orgs: 10
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PGHOST", "env-wins")

	cfg, err := Load(path, "dev")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.Database.Host != "env-wins" {
		t.Errorf("Database.Host = %q, env should override YAML", cfg.Database.Host)
	}
	if cfg.Snapshot.TopOrgs != 10 {
		t.Errorf("Snapshot.TopOrgs = %d, want 10", cfg.Snapshot.TopOrgs)
	}
}

func TestLoad_InvalidYearRange(t *testing.T) {
	t.Setenv("MIN_YEAR", "2100")
	t.Setenv("MAX_YEAR", "2005")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "test"); err == nil {
		t.Fatal("expected error for inverted year range")
	}
}

func TestConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p",
		Database: "d", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=u password=p dbname=d sslmode=disable"
	if got := c.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}
