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

// Package tui implements the interactive user search screen.
//
// Keystrokes edit a text input whose value feeds the debouncer. Each
// accepted value schedules a tea.Tick carrying the debouncer's token; only
// the tick for the latest token commits the term to the search cache. Page
// fetches run as commands and report back with the request token, so a
// result for a superseded term is dropped by the cache.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/sirseerhq/sirseer-scout/internal/debounce"
	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/github"
	"github.com/sirseerhq/sirseer-scout/internal/logging"
	"github.com/sirseerhq/sirseer-scout/internal/search"
)

// DefaultFetchTimeout bounds a single page fetch.
const DefaultFetchTimeout = 30 * time.Second

// Options wires a Model to its collaborators.
type Options struct {
	// Client runs page fetches. Required.
	Client github.Searcher
	// Cache holds pagination state. Defaults to search.New with default config.
	Cache *search.Cache
	// Debouncer filters and delays input. Defaults to debounce.New(0, 0).
	Debouncer *debounce.Debouncer
	// FetchTimeout bounds each fetch. Defaults to DefaultFetchTimeout.
	FetchTimeout time.Duration
	// Logger receives debug output. Defaults to a discarding logger.
	Logger logrus.FieldLogger
}

// Model is the Bubble Tea model for the search screen.
type Model struct {
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	ctx       context.Context
	client    github.Searcher
	cache     *search.Cache
	debouncer *debounce.Debouncer
	timeout   time.Duration
	log       logrus.FieldLogger

	width    int
	notice   string
	quitting bool
}

// debounceMsg fires when the quiet period for an input value has elapsed.
type debounceMsg struct {
	token debounce.Token
}

// fetchResultMsg carries the outcome of one page fetch.
type fetchResultMsg struct {
	token uint64
	page  *github.UserPage
	err   error
}

// New creates a search screen Model. Fetches run under ctx.
func New(ctx context.Context, opts Options) Model {
	if opts.Cache == nil {
		opts.Cache = search.New(search.Config{})
	}
	if opts.Debouncer == nil {
		opts.Debouncer = debounce.New(0, 0)
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	ti := textinput.New()
	ti.Placeholder = "name or email"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		input:     ti,
		spinner:   s,
		help:      help.New(),
		keys:      defaultKeyMap(),
		ctx:       ctx,
		client:    opts.Client,
		cache:     opts.Cache,
		debouncer: opts.Debouncer,
		timeout:   opts.FetchTimeout,
		log:       opts.Logger,
	}
}

// Run starts the search screen on the alternate screen and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options, programOpts ...tea.ProgramOption) error {
	programOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, programOpts...)
	p := tea.NewProgram(New(ctx, opts), programOpts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		term, ok := m.debouncer.Fire(msg.token)
		if !ok {
			return m, nil
		}
		m.notice = ""
		return m, m.start(m.cache.Commit(term))

	case fetchResultMsg:
		err := m.cache.Resolve(msg.token, msg.page, msg.err)
		switch {
		case errors.Is(err, scouterrors.ErrStaleResult):
			m.log.WithField("token", msg.token).Debug("Dropped result for superseded request")
		case err != nil:
			m.log.WithError(err).Warn("Search page failed")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.cache.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		if m.cache.Busy() {
			return m, nil
		}
		req, err := m.cache.Next()
		if err != nil {
			m.notice = navigationNotice(err)
			return m, nil
		}
		m.notice = ""
		return m, m.start(req)

	case key.Matches(msg, m.keys.Previous):
		if m.cache.Busy() {
			return m, nil
		}
		if err := m.cache.Previous(); err != nil {
			m.notice = navigationNotice(err)
			return m, nil
		}
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		m.notice = ""
		return m, m.start(m.cache.Retry())
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		if token, ok := m.debouncer.Input(norm.NFC.String(value)); ok {
			cmd = tea.Batch(cmd, tea.Tick(m.debouncer.Delay(), func(time.Time) tea.Msg {
				return debounceMsg{token: token}
			}))
		}
	}
	return m, cmd
}

// start returns the commands that run req and animate the spinner while it
// is in flight. A nil request needs no command.
func (m Model) start(req *search.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	m.log.WithFields(logrus.Fields{
		"term":  req.Term,
		"page":  req.Page,
		"token": req.Token,
	}).Debug("Fetching search page")
	return tea.Batch(m.fetch(req), m.spinner.Tick)
}

func (m Model) fetch(req *search.Request) tea.Cmd {
	ctx, client, timeout := m.ctx, m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		page, err := client.SearchUsers(ctx, req.Options)
		return fetchResultMsg{token: req.Token, page: page, err: err}
	}
}

func navigationNotice(err error) string {
	switch {
	case errors.Is(err, scouterrors.ErrNoNextPage):
		return "Already on the last page."
	case errors.Is(err, scouterrors.ErrNoPreviousPage):
		return "Already on the first page."
	default:
		return err.Error()
	}
}
