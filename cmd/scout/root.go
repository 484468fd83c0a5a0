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

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-scout/internal/config"
	"github.com/sirseerhq/sirseer-scout/internal/github"
	"github.com/sirseerhq/sirseer-scout/internal/logging"
	"github.com/sirseerhq/sirseer-scout/internal/metadata"
	"github.com/sirseerhq/sirseer-scout/internal/search"
	"github.com/sirseerhq/sirseer-scout/pkg/version"
)

// demoDelay simulates network latency in --demo mode.
var demoDelay = 400 * time.Millisecond

// globalOptions holds the flags shared by every command.
type globalOptions struct {
	configPath  string
	token       string
	pageSize    int
	demo        bool
	logFile     string
	logLevel    string
	metadataDir string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "scout",
		Short: "Search GitHub users by name or email",
		Long: `SirSeer Scout searches GitHub users and organizations by name or email.

Run without arguments in a terminal to open the interactive search screen.
Use the search command to fetch results as NDJSON for scripts and pipelines.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN (or the variable named by github.token_env)`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file path (default: .scout.yaml or ~/.sirseer/scout.yaml)")
	flags.StringVar(&opts.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Results per page, 1-100 (default from config: 10)")
	flags.BoolVar(&opts.demo, "demo", false, "Search generated demo users instead of GitHub")
	flags.StringVar(&opts.logFile, "log-file", "", "Write diagnostic logs to this file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.metadataDir, "metadata-dir", "", "Save session metadata JSON to this directory")

	rootCmd.AddCommand(newTUICommand(opts), newSearchCommand(opts), newStreamCommand(opts))
	return rootCmd
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// session bundles what one command invocation needs: configuration, logger,
// search client and the metadata tracker observing the cache.
type session struct {
	mode    string
	demo    bool
	cfg     *config.Config
	log     *logrus.Logger
	client  github.Searcher
	tracker *metadata.Tracker
	cleanup func()
}

// newSession loads configuration, applies flag overrides and builds the
// client. Logs without a configured file go to logFallback.
func newSession(opts *globalOptions, mode string, logFallback io.Writer) (*session, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.pageSize != 0 {
		cfg.Search.PageSize = opts.pageSize
	}
	if opts.logFile != "" {
		cfg.Logging.File = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.metadataDir != "" {
		cfg.Metadata.Dir = opts.metadataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, cleanup, err := logging.New(cfg.Logging, logFallback)
	if err != nil {
		return nil, err
	}

	client, err := buildClient(cfg, opts, log)
	if err != nil {
		cleanup()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"mode":      mode,
		"version":   version.Version,
		"page_size": cfg.Search.PageSize,
		"demo":      opts.demo,
	}).Debug("Session started")

	return &session{
		mode:    mode,
		demo:    opts.demo,
		cfg:     cfg,
		log:     log,
		client:  client,
		tracker: metadata.New(),
		cleanup: cleanup,
	}, nil
}

// buildClient creates the search client and wraps it with the retry and
// circuit breaker decorators enabled in cfg.
func buildClient(cfg *config.Config, opts *globalOptions, log logrus.FieldLogger) (github.Searcher, error) {
	var client github.Searcher
	if opts.demo {
		client = github.NewMockClientWithOptions(github.WithUsers(github.GenerateUsers(137)), github.WithDelay(demoDelay))
	} else {
		token := getToken(opts.token, cfg)
		if token == "" {
			return nil, fmt.Errorf("GitHub token not found. Set %s or use --token flag", tokenEnvName(cfg))
		}
		client = github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint, github.WithLogger(log))
	}

	if cfg.Retry.Enabled {
		client = github.NewRetryClient(client, &github.RetryConfig{
			MaxRetries:        cfg.Retry.MaxRetries,
			InitialBackoff:    cfg.Retry.InitialBackoff,
			MaxBackoff:        cfg.Retry.MaxBackoff,
			BackoffMultiplier: 2.0,
		}, log)
	}
	if cfg.Breaker.Enabled {
		client = github.NewBreakerClient(client, github.BreakerConfig{
			FailureThreshold: cfg.Breaker.FailureThreshold,
			OpenTimeout:      cfg.Breaker.OpenTimeout,
		}, log)
	}
	return client, nil
}

// getToken returns the GitHub token from the flag or the configured
// environment variable.
func getToken(flagToken string, cfg *config.Config) string {
	if flagToken != "" {
		return flagToken
	}
	return cfg.Token()
}

func tokenEnvName(cfg *config.Config) string {
	if cfg.GitHub.TokenEnv != "" {
		return cfg.GitHub.TokenEnv
	}
	return "GITHUB_TOKEN"
}

// newCache creates a search cache observed by the session tracker.
func (s *session) newCache() *search.Cache {
	return search.New(search.Config{
		PageSize:      s.cfg.Search.PageSize,
		MinTermLength: s.cfg.Search.MinTermLength,
	}, search.WithLogger(s.log), search.WithRecorder(s.tracker))
}

// close saves session metadata when a directory is configured and releases
// the log file.
func (s *session) close() error {
	defer s.cleanup()

	if s.cfg.Metadata.Dir == "" {
		return nil
	}

	endpoint := s.cfg.GitHub.GraphQLEndpoint
	if s.demo {
		endpoint = "demo"
	}
	md := s.tracker.GenerateMetadata(version.Version, s.mode, metadata.SessionParams{
		Endpoint:      endpoint,
		PageSize:      s.cfg.Search.PageSize,
		MinTermLength: s.cfg.Search.MinTermLength,
		Debounce:      s.cfg.Search.Debounce.String(),
		Demo:          s.demo,
	})
	path, err := metadata.SaveMetadata(md, s.cfg.Metadata.Dir)
	if err != nil {
		return err
	}
	s.log.WithField("path", path).Debug("Session metadata saved")
	return nil
}
