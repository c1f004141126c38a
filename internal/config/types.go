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

// Package config provides configuration management for pgn-to-sqlite.
// It supports loading configuration from YAML files, a .env file, environment
// variables, and command-line flags, with a clear precedence order.
package config

import "time"

// Config represents the complete configuration for pgn-to-sqlite.
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (including values from a .env file)
// 3. Configuration file
// 4. Default values (lowest priority)
type Config struct {
	ChessCom ChessComConfig `yaml:"chesscom"`
	Lichess  LichessConfig  `yaml:"lichess"`
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Metadata MetadataConfig `yaml:"metadata"`
}

// ChessComConfig contains chess.com published-data API settings.
type ChessComConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LichessConfig contains lichess.org export API settings.
type LichessConfig struct {
	BaseURL string `yaml:"base_url"`
	// Token is optional; public games export without it, but authenticated
	// requests get a faster stream.
	Token string `yaml:"token"`
	// PageSize of zero requests the whole export in a single response.
	PageSize int `yaml:"page_size"`
}

// HTTPConfig controls the shared HTTP client. Timeout limits connecting and
// waiting for response headers, not reading the body.
type HTTPConfig struct {
	Timeout          time.Duration `yaml:"timeout"`
	UserAgent        string        `yaml:"user_agent"`
	MaxResponseBytes int64         `yaml:"max_response_bytes"`
}

// StorageConfig contains persister settings.
type StorageConfig struct {
	Table string `yaml:"table"`
}

// CacheConfig enables the optional Redis cache for immutable chess.com archives.
// An empty RedisURL disables caching.
type CacheConfig struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

// LogConfig selects the zap logger level and encoder.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetadataConfig controls import summary files. An empty Dir disables them.
type MetadataConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ChessCom: ChessComConfig{
			BaseURL: "https://api.chess.com",
		},
		Lichess: LichessConfig{
			BaseURL:  "https://lichess.org",
			PageSize: 0,
		},
		HTTP: HTTPConfig{
			Timeout:          30 * time.Second,
			UserAgent:        "pgn-to-sqlite (+https://github.com/sirseerhq/pgn-to-sqlite)",
			MaxResponseBytes: 512 * 1024 * 1024,
		},
		Storage: StorageConfig{
			Table: "game",
		},
		Cache: CacheConfig{
			TTL: 30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
