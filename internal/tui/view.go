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

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/github"
	"github.com/sirseerhq/sirseer-scout/internal/search"
)

const defaultWidth = 80

var numbers = message.NewPrinter(language.English)

// View renders the search screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	v := m.cache.Snapshot()
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("GitHub user search"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.statusLine(v))
	b.WriteString("\n\n")

	switch {
	case len(v.Window) > 0:
		b.WriteString(renderTable(v.Window, width))
	case v.State == search.StateReady && !v.Busy:
		b.WriteString(dimStyle.Render("No users found."))
		b.WriteString("\n")
	}

	if v.Err != nil {
		line := "Error: " + errorText(v.Err)
		if v.CanRetry {
			line += " (ctrl+r to retry)"
		}
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(line))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.notice))
		b.WriteString("\n")
	}

	keys := m.keys
	keys.Next.SetEnabled(v.HasNext)
	keys.Previous.SetEnabled(v.HasPrevious)
	keys.Retry.SetEnabled(v.CanRetry)
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))

	return b.String()
}

func (m Model) statusLine(v search.View) string {
	switch v.State {
	case search.StateFetching:
		if v.Page > 1 {
			return fmt.Sprintf("%s Loading page %d of %q…", m.spinner.View(), v.Page, v.Term)
		}
		return fmt.Sprintf("%s Searching for %q…", m.spinner.View(), v.Term)
	case search.StateReady:
		return pageIndicator(v)
	default:
		return dimStyle.Render(fmt.Sprintf("Type at least %d characters to search.", m.debouncer.MinChars()))
	}
}

// pageIndicator renders "‹ page k of N · total users ›" with the arrows
// dimmed when the move is unavailable.
func pageIndicator(v search.View) string {
	prev, next := dimStyle.Render("‹"), dimStyle.Render("›")
	if v.HasPrevious {
		prev = navStyle.Render("‹")
	}
	if v.HasNext {
		next = navStyle.Render("›")
	}

	pages := max(v.TotalPages, 1)
	noun := "users"
	if v.TotalCount == 1 {
		noun = "user"
	}
	return fmt.Sprintf("%s page %d of %d · %s %s %s",
		prev, v.Page, pages, numbers.Sprintf("%d", v.TotalCount), noun, next)
}

// Column widths for login, name and repos; location takes the rest.
const (
	loginWidth  = 20
	nameWidth   = 24
	reposWidth  = 6
	minLocWidth = 8
)

func renderTable(users []github.User, width int) string {
	locWidth := max(width-loginWidth-nameWidth-reposWidth-6, minLocWidth)

	var b strings.Builder
	b.WriteString(headerStyle.Render(row(cell("LOGIN", loginWidth), "NAME", "LOCATION", "REPOS", locWidth)))
	b.WriteString("\n")
	for _, u := range users {
		login := cell(u.Login, loginWidth)
		if u.Kind == github.KindOrganization {
			login = kindStyle.Render(login)
		}
		b.WriteString(row(login, u.DisplayName(), u.Location, fmt.Sprint(u.PublicRepos), locWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// row joins one table line. login is already sized to loginWidth.
func row(login, name, location, repos string, locWidth int) string {
	return strings.Join([]string{
		login,
		cell(name, nameWidth),
		cell(location, locWidth),
		runewidth.FillLeft(repos, reposWidth),
	}, "  ")
}

// cell truncates s to w terminal columns and pads it to exactly w.
func cell(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

func errorText(err error) string {
	switch {
	case errors.Is(err, scouterrors.ErrInvalidToken):
		return "GitHub rejected the token. Set GITHUB_TOKEN to a valid token."
	case errors.Is(err, scouterrors.ErrRateLimit):
		return "GitHub rate limit exceeded. Wait a moment and retry."
	case errors.Is(err, scouterrors.ErrNetworkFailure):
		return "Could not reach GitHub. Check your connection."
	case errors.Is(err, scouterrors.ErrMalformedResponse):
		return "GitHub returned an unexpected response."
	default:
		return err.Error()
	}
}
