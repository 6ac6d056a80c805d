package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Make sure ambient env does not leak into the defaults under test.
	for _, key := range []string{"PORT", "CORS_ORIGINS", "SQLITE_DB_PATH", "RULES_FILE", "DEFAULT_ACCOUNT", "ALLOW_FOUR_DIGIT_YEARS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q; want 8080", cfg.Port)
	}
	if cfg.SQLiteDBPath != "./data/findash.db" {
		t.Errorf("SQLiteDBPath = %q; want default", cfg.SQLiteDBPath)
	}
	if cfg.DefaultAccount != "Conta Corrente" {
		t.Errorf("DefaultAccount = %q; want Conta Corrente", cfg.DefaultAccount)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v; want [*]", cfg.CORSOrigins)
	}
	if cfg.AllowFourDigitYears {
		t.Error("AllowFourDigitYears should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://app.example.com")
	t.Setenv("ALLOW_FOUR_DIGIT_YEARS", "true")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("Port = %q; want 9999", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://app.example.com" {
		t.Errorf("CORSOrigins = %v; want two trimmed origins", cfg.CORSOrigins)
	}
	if !cfg.AllowFourDigitYears {
		t.Error("AllowFourDigitYears should be true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "non-numeric port",
			mutate:  func(c *Config) { c.Port = "abc" },
			wantErr: "invalid port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = "70000" },
			wantErr: "invalid port",
		},
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.SQLiteDBPath = "" },
			wantErr: "database path",
		},
		{
			name:    "empty default account",
			mutate:  func(c *Config) { c.DefaultAccount = "" },
			wantErr: "default account",
		},
		{
			name:    "missing rules file",
			mutate:  func(c *Config) { c.RulesFile = "/nonexistent/rules.yaml" },
			wantErr: "rules file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:           "8080",
				SQLiteDBPath:   "./data/findash.db",
				DefaultAccount: "Conta Corrente",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
