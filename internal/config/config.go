// Package config handles environment settings and the sync scope file.
package config

import (
	"errors"
	"os"
)

const defaultAPIBaseURL = "https://data.cms.gov/provider-data/api/1/datastore/query"

// Config holds process-level settings loaded from environment variables
// (populated from .env by main via godotenv).
type Config struct {
	DatabaseURL string
	APIBaseURL  string
	LogMode     string
}

// LoadConfig reads settings from the environment. Only DATABASE_URL is
// required; the CMS API base URL has a sensible default.
func LoadConfig() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL environment variable not set")
	}

	apiBase := os.Getenv("CMS_API_BASE_URL")
	if apiBase == "" {
		apiBase = defaultAPIBaseURL
	}

	return &Config{
		DatabaseURL: dbURL,
		APIBaseURL:  apiBase,
		LogMode:     os.Getenv("LOG_MODE"),
	}, nil
}
