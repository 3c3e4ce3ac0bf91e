// Package config loads the client configuration from the environment, with
// .env support for local development.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the CLI needs to talk to a backend.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	DownloadDir string

	LogFile  string
	LogLevel string
	Env      string // dev|prod
}

// Load reads .env (if present), then the environment, and fills defaults.
// It never logs; the logger is configured from the result.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	timeout, err := time.ParseDuration(def(os.Getenv("AUTOLETTER_TIMEOUT"), "30s"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid AUTOLETTER_TIMEOUT: %w", err)
	}

	cfg := &Config{
		BaseURL:     def(os.Getenv("AUTOLETTER_BASE_URL"), "http://localhost:8000"),
		Timeout:     timeout,
		DownloadDir: def(os.Getenv("AUTOLETTER_DOWNLOAD_DIR"), "downloads"),

		LogFile:  os.Getenv("AUTOLETTER_LOG_FILE"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),
	}

	return cfg, nil
}

// Validate returns warnings plus a fatal error when the config cannot work.
func (c *Config) Validate() (warnings []string, err error) {
	u, parseErr := url.Parse(c.BaseURL)
	if parseErr != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("config: AUTOLETTER_BASE_URL must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("config: unsupported scheme %q in AUTOLETTER_BASE_URL", u.Scheme)
	}

	if c.Timeout <= 0 {
		warnings = append(warnings, "AUTOLETTER_TIMEOUT is non-positive, requests will use the default")
	}
	if c.DownloadDir == "" {
		warnings = append(warnings, "AUTOLETTER_DOWNLOAD_DIR is empty, artifacts land in the working directory")
	}

	return warnings, nil
}
