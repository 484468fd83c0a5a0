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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/sirseerhq/sirseer-scout/internal/debounce"
	"github.com/sirseerhq/sirseer-scout/internal/github"
	"github.com/sirseerhq/sirseer-scout/internal/output"
	"github.com/sirseerhq/sirseer-scout/internal/search"
)

func newStreamCommand(opts *globalOptions) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Search each settled input line read from stdin",
		Long: `Read search-field values from stdin, one per line, and search the values
that settle. A value is searched once it has at least the configured minimum
characters and no newer line arrives within the debounce delay. Repeating the
last searched value does nothing. At end of input the pending value is
searched immediately.

The first page of each searched term is written as NDJSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := newSession(opts, "stream", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.close())
			}()

			writer, err := output.Open(outputFile, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer writer.Close()

			return runStream(cmd.Context(), s, cmd.InOrStdin(), writer)
		},
	}

	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")

	return cmd
}

// runStream feeds input lines through a debounce timer and searches every
// committed term. A failed search is logged and the stream continues; the
// first failure is returned once input ends.
func runStream(ctx context.Context, s *session, in io.Reader, w output.PageWriter) error {
	terms := make(chan string, 16)
	timer := debounce.NewTimer(debounce.New(s.cfg.Search.MinChars, s.cfg.Search.Debounce), sendTerm(ctx, terms))

	readErr := make(chan error, 1)
	go func() {
		defer close(terms)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if ctx.Err() != nil {
				break
			}
			timer.Input(norm.NFC.String(strings.TrimRight(scanner.Text(), "\r")))
		}
		if ctx.Err() != nil {
			timer.Stop()
		} else {
			timer.Flush()
		}
		readErr <- scanner.Err()
	}()

	cache := s.newCache()
	var firstErr error
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case term, ok := <-terms:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				return firstErr
			}
			if err := streamTerm(ctx, s.client, cache, term, w); err != nil {
				s.log.WithError(err).WithField("term", term).Warn("Search failed")
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
}

// sendTerm returns an emit callback for a debounce.Timer. The callback runs
// with the Timer locked, so it gives up once ctx is done rather than block
// on a consumer that has stopped reading.
func sendTerm(ctx context.Context, terms chan<- string) func(string) {
	return func(term string) {
		select {
		case terms <- term:
		case <-ctx.Done():
		}
	}
}

// streamTerm searches term from its first page and writes that page.
func streamTerm(ctx context.Context, client github.Searcher, cache *search.Cache, term string, w output.PageWriter) error {
	req := cache.Commit(term)
	if req == nil {
		return nil
	}
	if err := cache.Execute(ctx, client, req); err != nil {
		return err
	}
	return w.WritePage(term, cache.Page(), cache.Window())
}
