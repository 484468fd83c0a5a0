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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test GitHub defaults
	if cfg.GitHub.GraphQLEndpoint != "https://api.github.com/graphql" {
		t.Errorf("GraphQLEndpoint = %s, want https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	}

	// Test search defaults
	if cfg.Search.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.Search.PageSize)
	}
	if cfg.Search.MinChars != 3 {
		t.Errorf("MinChars = %d, want 3", cfg.Search.MinChars)
	}
	if cfg.Search.MinTermLength != 2 {
		t.Errorf("MinTermLength = %d, want 2", cfg.Search.MinTermLength)
	}
	if cfg.Search.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Search.Debounce)
	}

	// Decorators are opt-in
	if cfg.Retry.Enabled || cfg.Breaker.Enabled {
		t.Error("retry and breaker should be disabled by default")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
	if cfg.Metadata.Dir != "" {
		t.Errorf("Metadata.Dir = %q, want empty", cfg.Metadata.Dir)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "scout.yaml")

	configContent := `
github:
  graphql_endpoint: https://github.enterprise.com/api/graphql
  token_env: GITHUB_ENTERPRISE_TOKEN

search:
  page_size: 25
  min_chars: 4
  debounce: 250ms

retry:
  enabled: true
  max_retries: 5
  initial_backoff: 2s

breaker:
  enabled: true
  failure_threshold: 3
  open_timeout: 1m

logging:
  level: debug
  format: json
  file: /var/log/scout.log

metadata:
  dir: /var/lib/scout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.GitHub.GraphQLEndpoint != "https://github.enterprise.com/api/graphql" {
		t.Errorf("GraphQLEndpoint = %s", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_ENTERPRISE_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_ENTERPRISE_TOKEN", cfg.GitHub.TokenEnv)
	}

	if cfg.Search.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Search.PageSize)
	}
	if cfg.Search.MinChars != 4 {
		t.Errorf("MinChars = %d, want 4", cfg.Search.MinChars)
	}
	// Unset keys keep their defaults
	if cfg.Search.MinTermLength != 2 {
		t.Errorf("MinTermLength = %d, want 2", cfg.Search.MinTermLength)
	}
	if cfg.Search.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", cfg.Search.Debounce)
	}

	if !cfg.Retry.Enabled || cfg.Retry.MaxRetries != 5 || cfg.Retry.InitialBackoff != 2*time.Second {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
	if cfg.Retry.MaxBackoff != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want default 30s", cfg.Retry.MaxBackoff)
	}
	if !cfg.Breaker.Enabled || cfg.Breaker.FailureThreshold != 3 || cfg.Breaker.OpenTimeout != time.Minute {
		t.Errorf("Breaker = %+v", cfg.Breaker)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" || cfg.Logging.File != "/var/log/scout.log" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Metadata.Dir != "/var/lib/scout" {
		t.Errorf("Metadata.Dir = %s, want /var/lib/scout", cfg.Metadata.Dir)
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("LoadConfig() with missing file succeeded, want error")
	}

	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("search: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(bad)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("LoadConfig() with bad YAML error = %v", err)
	}
}

func TestLoadConfig_DiscoversHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".sirseer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "search:\n  page_size: 42\nmetadata:\n  dir: ~/scout-sessions\n"
	if err := os.WriteFile(filepath.Join(dir, "scout.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Search.PageSize != 42 {
		t.Errorf("PageSize = %d, want 42", cfg.Search.PageSize)
	}
	if want := filepath.Join(home, "scout-sessions"); cfg.Metadata.Dir != want {
		t.Errorf("Metadata.Dir = %s, want %s", cfg.Metadata.Dir, want)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", "https://custom.graphql.com")
	t.Setenv("SCOUT_PAGE_SIZE", "75")
	t.Setenv("SCOUT_DEBOUNCE", "300ms")
	t.Setenv("SCOUT_LOG_LEVEL", "debug")
	t.Setenv("SCOUT_LOG_FILE", "/tmp/scout.log")
	t.Setenv("SCOUT_RETRY", "yes")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.GitHub.GraphQLEndpoint != "https://custom.graphql.com" {
		t.Errorf("GraphQLEndpoint = %s, want https://custom.graphql.com", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.Search.PageSize != 75 {
		t.Errorf("PageSize = %d, want 75", cfg.Search.PageSize)
	}
	if cfg.Search.Debounce != 300*time.Millisecond {
		t.Errorf("Debounce = %v, want 300ms", cfg.Search.Debounce)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.File != "/tmp/scout.log" {
		t.Errorf("Logging.File = %s, want /tmp/scout.log", cfg.Logging.File)
	}
	if !cfg.Retry.Enabled {
		t.Error("Retry.Enabled = false, want true")
	}
}

func TestEnvironmentOverrides_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCOUT_PAGE_SIZE", "-3")
	t.Setenv("SCOUT_DEBOUNCE", "soon")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Search.PageSize != 10 {
		t.Errorf("PageSize = %d, want default 10", cfg.Search.PageSize)
	}
	if cfg.Search.Debounce != time.Second {
		t.Errorf("Debounce = %v, want default 1s", cfg.Search.Debounce)
	}
}

func TestToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "default-token")
	t.Setenv("GHE_TOKEN", "enterprise-token")

	cfg := DefaultConfig()
	if got := cfg.Token(); got != "default-token" {
		t.Errorf("Token() = %q, want default-token", got)
	}

	cfg.GitHub.TokenEnv = "GHE_TOKEN"
	if got := cfg.Token(); got != "enterprise-token" {
		t.Errorf("Token() = %q, want enterprise-token", got)
	}

	cfg.GitHub.TokenEnv = ""
	if got := cfg.Token(); got != "default-token" {
		t.Errorf("Token() with empty env name = %q, want default-token", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.Search.PageSize = 0 },
			wantErr: "page size must be positive",
		},
		{
			name:    "page size too large",
			mutate:  func(c *Config) { c.Search.PageSize = 150 },
			wantErr: "exceeds GitHub API limit of 100",
		},
		{
			name:    "page size at limit",
			mutate:  func(c *Config) { c.Search.PageSize = 100 },
			wantErr: "",
		},
		{
			name:    "zero min chars",
			mutate:  func(c *Config) { c.Search.MinChars = 0 },
			wantErr: "min_chars must be positive",
		},
		{
			name:    "zero min term length",
			mutate:  func(c *Config) { c.Search.MinTermLength = 0 },
			wantErr: "min_term_length must be positive",
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Search.Debounce = -time.Second },
			wantErr: "debounce cannot be negative",
		},
		{
			name:    "empty GraphQL endpoint",
			mutate:  func(c *Config) { c.GitHub.GraphQLEndpoint = "" },
			wantErr: "GitHub GraphQL endpoint cannot be empty",
		},
		{
			name: "negative retries",
			mutate: func(c *Config) {
				c.Retry.Enabled = true
				c.Retry.MaxRetries = -1
			},
			wantErr: "max_retries cannot be negative",
		},
		{
			name: "breaker without threshold",
			mutate: func(c *Config) {
				c.Breaker.Enabled = true
				c.Breaker.FailureThreshold = 0
			},
			wantErr: "failure_threshold must be positive",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "unknown log level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "unknown log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() error = nil, want %s", tt.wantErr)
				} else if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Validate() error = %v, want containing %s", err, tt.wantErr)
				}
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandPath(tt.input); got != tt.want {
			t.Errorf("expandPath(%s) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"1", true},
		{"on", true},
		{" on ", true},
		{"false", false},
		{"no", false},
		{"0", false},
		{"off", false},
		{"", false},
		{"random", false},
	}

	for _, tt := range tests {
		if got := parseBool(tt.input); got != tt.want {
			t.Errorf("parseBool(%s) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"50", 50, false},
		{"1", 1, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePositiveInt(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePositiveInt(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePositiveInt(%s) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
