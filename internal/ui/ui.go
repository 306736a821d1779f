package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cachewatch/cachewatch/internal/lancache"
	"github.com/cachewatch/cachewatch/internal/prefs"
	"github.com/cachewatch/cachewatch/internal/state"
)

// Options configure the dashboard UI.
type Options struct {
	Context   context.Context
	Client    *lancache.Client
	Store     *state.Store
	ThemeName string
	PrefsPath string
}

// Run starts the TUI and blocks until the user quits or the context is
// cancelled.
func Run(opts Options) error {
	if opts.Client == nil || opts.Store == nil {
		return fmt.Errorf("ui: client and store required")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := newModel(opts)
	program := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(opts.Context),
	)

	// Re-render as soon as a preference is pended locally, without waiting
	// for the next tick or the save round-trip.
	unsubscribe := opts.Store.Guard().Subscribe(func() {
		program.Send(pendingChangedMsg{})
	})
	defer unsubscribe()

	// Pick up external edits to the local prefs file (theme changes made by
	// another cachewatch instance or by hand).
	go func() {
		_ = prefs.Watch(opts.Context, opts.PrefsPath, func(p prefs.Prefs) {
			program.Send(prefsReloadedMsg{theme: p.Theme})
		})
	}()

	_, err := program.Run()
	return err
}
