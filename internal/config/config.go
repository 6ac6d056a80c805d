// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every runtime knob of the dashboard service.
type Config struct {
	// HTTP server
	Port        string
	CORSOrigins []string

	// Persistence
	SQLiteDBPath string

	// Import
	RulesFile      string // empty = embedded default rules
	DefaultAccount string

	// Validation
	AllowFourDigitYears bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win
// over it.
func Load() *Config {
	// Ignore the error: a missing .env file just means env-only config.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/findash.db"),

		RulesFile:      getEnv("RULES_FILE", ""),
		DefaultAccount: getEnv("DEFAULT_ACCOUNT", "Conta Corrente"),

		AllowFourDigitYears: getEnvBool("ALLOW_FOUR_DIGIT_YEARS", false),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if c.DefaultAccount == "" {
		errors = append(errors, "default account name cannot be empty")
	}

	if c.RulesFile != "" {
		if _, err := os.Stat(c.RulesFile); err != nil {
			errors = append(errors, fmt.Sprintf("rules file '%s' is not readable: %v", c.RulesFile, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// splitList parses a comma-separated env value, trimming whitespace and
// dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
