// Package app wires the score's command engine and the selection
// engine together and keeps them in sync: every committed score change
// re-syncs the selection against the new root.
package app

import (
	"github.com/etudehq/etude/internal/command"
	"github.com/etudehq/etude/internal/score"
	"github.com/etudehq/etude/internal/selection"
)

// App is one open document: the score-owning command engine plus its
// selection engine.
type App struct {
	Commands  *command.Engine
	Selection *selection.Engine

	logger *Logger
	hooks  *selection.Hooks
}

// Option configures an App.
type Option func(*App, *config)

type config struct {
	maxHistory int
}

// WithMaxHistory caps the command engine's undo depth.
func WithMaxHistory(n int) Option {
	return func(_ *App, c *config) { c.maxHistory = n }
}

// WithHooks installs navigation boundary hooks for external tracks.
func WithHooks(h *selection.Hooks) Option {
	return func(a *App, _ *config) { a.hooks = h }
}

// WithLogger replaces the default logger.
func WithLogger(l *Logger) Option {
	return func(a *App, _ *config) { a.logger = l }
}

// New builds an app around the given score.
func New(s *score.Score, opts ...Option) *App {
	a := &App{logger: NewLogger(LogLevelInfo, nil)}
	var c config
	for _, opt := range opts {
		opt(a, &c)
	}

	var cmdOpts []command.Option
	if c.maxHistory > 0 {
		cmdOpts = append(cmdOpts, command.WithMaxHistory(c.maxHistory))
	}
	a.Commands = command.NewEngine(s, cmdOpts...)

	var selOpts []selection.Option
	if a.hooks != nil {
		selOpts = append(selOpts, selection.WithHooks(a.hooks))
	}
	a.Selection = selection.NewEngine(a.Commands.Score, selOpts...)

	// Selection refs can go stale the moment a command lands.
	a.Commands.Subscribe(func(ns *score.Score) {
		a.Selection.Resync(ns)
	})
	return a
}

// Load installs a freshly loaded score, resetting history and
// selection.
func (a *App) Load(s *score.Score) {
	a.Commands.SetScore(s)
	a.Selection.SetState(selection.None())
}

// Score returns the current root.
func (a *App) Score() *score.Score {
	return a.Commands.Score()
}

// Navigate moves the cursor one step. When a rightward step runs off
// the final measure the navigation only requests a new measure; this
// is where the request is honored: a measure is appended and the step
// retried.
func (a *App) Navigate(d selection.Direction) bool {
	nav := &selection.Navigate{Direction: d, Hooks: a.hooks}
	if a.Selection.Dispatch(nav) {
		return true
	}
	if !nav.ShouldCreateMeasure {
		return false
	}
	if !a.Commands.Dispatch(&command.AddMeasure{AtIndex: -1}) {
		return false
	}
	a.logger.Debug("appended measure for navigation")
	return a.Selection.Dispatch(&selection.Navigate{Direction: d, Hooks: a.hooks})
}

// Logger returns the app's logger.
func (a *App) Logger() *Logger {
	return a.logger
}
