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

// Package config types define the configuration structures used throughout
// sirseer-scout. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

import "time"

// Config represents the complete configuration for sirseer-scout.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Search   SearchConfig   `yaml:"search"`
	Retry    RetryConfig    `yaml:"retry"`
	Breaker  BreakerConfig  `yaml:"breaker"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metadata MetadataConfig `yaml:"metadata"`
}

// GitHubConfig contains the GraphQL endpoint and the name of the environment
// variable holding the token. A custom endpoint targets GitHub Enterprise.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// SearchConfig controls input debouncing and pagination.
type SearchConfig struct {
	// PageSize is the number of results per page (1-100).
	PageSize int `yaml:"page_size"`
	// MinChars is the shortest input the debouncer buffers.
	MinChars int `yaml:"min_chars"`
	// MinTermLength is the shortest committed term that issues a query.
	MinTermLength int `yaml:"min_term_length"`
	// Debounce is the quiet period before input is committed.
	Debounce time.Duration `yaml:"debounce"`
}

// RetryConfig enables the retrying search client.
type RetryConfig struct {
	Enabled        bool          `yaml:"enabled"`
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// BreakerConfig enables the circuit breaker around the search client.
type BreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	FailureThreshold uint32        `yaml:"failure_threshold"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
}

// LoggingConfig controls diagnostic logging. An empty File sends logs to
// stderr for the search command and discards them in the TUI.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// MetadataConfig controls where session metadata is saved. Empty disables it.
type MetadataConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible defaults for public GitHub.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Search: SearchConfig{
			PageSize:      10,
			MinChars:      3,
			MinTermLength: 2,
			Debounce:      time.Second,
		},
		Retry: RetryConfig{
			Enabled:        false,
			MaxRetries:     3,
			InitialBackoff: time.Second,
			MaxBackoff:     30 * time.Second,
		},
		Breaker: BreakerConfig{
			Enabled:          false,
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
