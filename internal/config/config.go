// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// envOverrides lists every environment variable that can override the file config.
// Pointer fields stay nil when the variable is unset.
type envOverrides struct {
	ChessComURL     string         `envconfig:"PGN_CHESSCOM_URL"`
	LichessURL      string         `envconfig:"PGN_LICHESS_URL"`
	LichessToken    string         `envconfig:"LICHESS_TOKEN"`
	LichessPageSize *int           `envconfig:"PGN_LICHESS_PAGE_SIZE"`
	HTTPTimeout     *time.Duration `envconfig:"PGN_HTTP_TIMEOUT"`
	UserAgent       string         `envconfig:"PGN_USER_AGENT"`
	Table           string         `envconfig:"PGN_TABLE"`
	RedisURL        string         `envconfig:"PGN_REDIS_URL"`
	CacheTTL        *time.Duration `envconfig:"PGN_CACHE_TTL"`
	LogLevel        string         `envconfig:"PGN_LOG_LEVEL"`
	LogFormat       string         `envconfig:"PGN_LOG_FORMAT"`
	MetadataDir     string         `envconfig:"PGN_METADATA_DIR"`
}

// LoadConfig loads configuration from the specified file path.
// If configPath is empty, it searches for config files in standard locations:
//   - .pgn-to-sqlite.yaml or .pgn-to-sqlite.yml in current directory
//   - ~/.pgn-to-sqlite/config.yaml or ~/.pgn-to-sqlite/config.yml
//
// A .env file in the current directory is loaded into the environment first
// without replacing variables that are already set.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".pgn-to-sqlite.yaml",
			".pgn-to-sqlite.yml",
			filepath.Join(os.Getenv("HOME"), ".pgn-to-sqlite", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".pgn-to-sqlite", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Metadata.Dir = expandPath(cfg.Metadata.Dir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML configuration file.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}

	if env.ChessComURL != "" {
		cfg.ChessCom.BaseURL = env.ChessComURL
	}
	if env.LichessURL != "" {
		cfg.Lichess.BaseURL = env.LichessURL
	}
	if env.LichessToken != "" {
		cfg.Lichess.Token = env.LichessToken
	}
	if env.LichessPageSize != nil {
		cfg.Lichess.PageSize = *env.LichessPageSize
	}
	if env.HTTPTimeout != nil {
		cfg.HTTP.Timeout = *env.HTTPTimeout
	}
	if env.UserAgent != "" {
		cfg.HTTP.UserAgent = env.UserAgent
	}
	if env.Table != "" {
		cfg.Storage.Table = env.Table
	}
	if env.RedisURL != "" {
		cfg.Cache.RedisURL = env.RedisURL
	}
	if env.CacheTTL != nil {
		cfg.Cache.TTL = *env.CacheTTL
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.MetadataDir != "" {
		cfg.Metadata.Dir = env.MetadataDir
	}

	return nil
}

// expandPath expands ~ to home directory and environment variables.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateBaseURL("chess.com", c.ChessCom.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("lichess", c.Lichess.BaseURL); err != nil {
		return err
	}
	if c.Lichess.PageSize < 0 {
		return fmt.Errorf("lichess page size must not be negative, got: %d", c.Lichess.PageSize)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got: %s", c.HTTP.Timeout)
	}
	if c.HTTP.MaxResponseBytes <= 0 {
		return fmt.Errorf("max response bytes must be positive, got: %d", c.HTTP.MaxResponseBytes)
	}
	if !identifierPattern.MatchString(c.Storage.Table) {
		return fmt.Errorf("table name %q is not a valid SQL identifier", c.Storage.Table)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got: %s", c.Cache.TTL)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q (use debug, info, warn or error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (use console or json)", c.Log.Format)
	}
	return nil
}

func validateBaseURL(service, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s base URL cannot be empty", service)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s base URL %q must be an absolute http(s) URL", service, raw)
	}
	return nil
}
