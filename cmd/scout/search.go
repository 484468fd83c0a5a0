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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/output"
)

var numbers = message.NewPrinter(language.English)

func newSearchCommand(opts *globalOptions) *cobra.Command {
	var (
		page       int
		fetchAll   bool
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search GitHub users and write results as NDJSON",
		Long: `Search GitHub users whose name or email contains <term> and output one
page of results in NDJSON format.

Pages are fetched in order using cursor pagination, so --page N issues N
requests. Use --all to write every page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if page < 1 {
				return fmt.Errorf("--page must be at least 1, got %d", page)
			}

			s, err := newSession(opts, "search", cmd.ErrOrStderr())
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

			return runSearch(cmd.Context(), s, args[0], page, fetchAll, writer, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page of results to output")
	cmd.Flags().BoolVar(&fetchAll, "all", false, "Output every page of results")
	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")

	return cmd
}

// runSearch commits term to a fresh cache and walks forward page by page,
// exactly as the interactive screen does, writing the requested pages.
func runSearch(ctx context.Context, s *session, term string, page int, all bool, w output.PageWriter, progress io.Writer) error {
	term = strings.TrimSpace(term)
	cache := s.newCache()

	req := cache.Commit(term)
	if req == nil {
		return fmt.Errorf("search term must be at least %d characters", s.cfg.Search.MinTermLength)
	}
	fmt.Fprintf(progress, "Searching GitHub users for %q...", term)
	if err := cache.Execute(ctx, s.client, req); err != nil {
		fmt.Fprintf(progress, "\r\033[K") // Clear progress line
		return err
	}

	for {
		view := cache.Snapshot()
		if all || view.Page == page {
			if err := w.WritePage(term, view.Page, view.Window); err != nil {
				return err
			}
		}
		if !all && view.Page >= page {
			break
		}

		req, err := cache.Next()
		if errors.Is(err, scouterrors.ErrNoNextPage) {
			if all {
				break
			}
			fmt.Fprintf(progress, "\r\033[K")
			return fmt.Errorf("page %d is out of range: %q has %d pages", page, term, max(view.TotalPages, 1))
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(progress, "\rSearching GitHub users for %q... page %d", term, cache.Page())
		if err := cache.Execute(ctx, s.client, req); err != nil {
			fmt.Fprintf(progress, "\r\033[K")
			return err
		}
	}

	fmt.Fprintf(progress, "\r\033[K") // Clear progress line
	view := cache.Snapshot()
	if view.TotalCount == 0 {
		fmt.Fprintf(progress, "No users found for %q\n", term)
		return nil
	}
	if all {
		fmt.Fprintf(progress, "Wrote %s users from %d pages (%s matches)\n",
			numbers.Sprintf("%d", view.Accumulated), view.Page, numbers.Sprintf("%d", view.TotalCount))
		return nil
	}
	fmt.Fprintf(progress, "Wrote page %d of %d (%s matches)\n",
		view.Page, view.TotalPages, numbers.Sprintf("%d", view.TotalCount))
	return nil
}
