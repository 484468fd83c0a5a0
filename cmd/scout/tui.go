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
	"io"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-scout/internal/debounce"
	"github.com/sirseerhq/sirseer-scout/internal/tui"
)

func newTUICommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive search screen",
		Long: `Open the interactive search screen.

Type at least three characters to search; results appear once typing pauses.
Page through results with pgup/pgdn. Pages already seen are shown from the
local cache without another request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
}

// runTUI runs the search screen. The terminal belongs to the UI, so logs
// are discarded unless a log file is configured.
func runTUI(ctx context.Context, opts *globalOptions) (err error) {
	s, err := newSession(opts, "tui", io.Discard)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close())
	}()

	return tui.Run(ctx, tui.Options{
		Client:    s.client,
		Cache:     s.newCache(),
		Debouncer: debounce.New(s.cfg.Search.MinChars, s.cfg.Search.Debounce),
		Logger:    s.log,
	})
}
