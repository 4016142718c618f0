// Package config loads runtime configuration from a .env file and the
// environment into an explicit Config struct that main constructs once
// and injects everywhere. There are no process-wide singletons.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string
	// DatabaseURL is the SQLite database path.
	DatabaseURL string
	// SessionSecret signs the session cookie. Required.
	SessionSecret string
	// AdminEmails lists addresses that receive the admin role at
	// registration time.
	AdminEmails []string
	// AdminOnlyPhotos restricts photo creation to admins when true.
	// Default is any authenticated user.
	AdminOnlyPhotos bool
}

// IsAdminEmail reports whether the address is configured as an admin
// account. Comparison is case-insensitive.
func (c Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// Load reads a .env file if one exists, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg := Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", "photovote.db"),
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET is required")
	}

	if emails := os.Getenv("ADMIN_EMAILS"); emails != "" {
		for _, e := range strings.Split(emails, ",") {
			if e = strings.TrimSpace(e); e != "" {
				cfg.AdminEmails = append(cfg.AdminEmails, e)
			}
		}
	}

	switch strings.ToLower(os.Getenv("ADMIN_ONLY_PHOTOS")) {
	case "1", "true", "yes":
		cfg.AdminOnlyPhotos = true
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable, or fallback when
// it is unset or empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
