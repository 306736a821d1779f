package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cachewatch/cachewatch/internal/lancache"
)

const (
	uiRefreshInterval = time.Second
	opPollInterval    = 500 * time.Millisecond
)

// tickMsg drives the periodic re-render from the snapshot store.
type tickMsg time.Time

// pendingChangedMsg is sent by the optimistic guard subscription whenever a
// preference value was pended locally, so the UI re-renders before the save
// round-trip completes.
type pendingChangedMsg struct{}

// prefsReloadedMsg carries locally reloaded prefs from the file watcher.
type prefsReloadedMsg struct {
	theme string
}

// prefsSavedMsg reports the outcome of a session preference save.
type prefsSavedMsg struct {
	err error
}

// operationMsg reports a started or polled maintenance operation.
type operationMsg struct {
	op  lancache.Operation
	err error
}

func tickCmd() tea.Cmd {
	return tea.Tick(uiRefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// savePrefsCmd persists the session preferences. The pending values are
// already in the guard, so the UI shows the change regardless of how long
// this request takes.
func savePrefsCmd(ctx context.Context, client *lancache.Client, prefs lancache.SessionPrefs) tea.Cmd {
	return func() tea.Msg {
		return prefsSavedMsg{err: client.SaveSessionPrefs(ctx, prefs)}
	}
}

// startOpCmd fires a maintenance operation.
func startOpCmd(ctx context.Context, start func(context.Context) (lancache.Operation, error)) tea.Cmd {
	return func() tea.Msg {
		op, err := start(ctx)
		return operationMsg{op: op, err: err}
	}
}

// pollOpCmd re-fetches a running operation's progress after a short delay.
func pollOpCmd(ctx context.Context, client *lancache.Client, operationID string) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(opPollInterval):
		}
		op, err := client.FetchOperation(ctx, operationID)
		return operationMsg{op: op, err: err}
	}
}
