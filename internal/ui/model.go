package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cachewatch/cachewatch/internal/lancache"
	"github.com/cachewatch/cachewatch/internal/optimistic"
	"github.com/cachewatch/cachewatch/internal/prefs"
	"github.com/cachewatch/cachewatch/internal/state"
)

// Panels shown in the main area.
const (
	panelServices = iota
	panelDownloads
	panelCount
)

// confirmAction identifies a destructive action awaiting confirmation.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmClearCache
	confirmRemoveGame
	confirmResetDatabase
)

type model struct {
	ctx    context.Context
	client *lancache.Client
	store  *state.Store

	keys    keyMap
	theme   Theme
	styles  Styles
	spinner spinner.Model

	prefsPath string

	width  int
	height int

	panel    int
	cursor   int
	showHelp bool

	confirm confirmAction

	op      *lancache.Operation
	opErr   error
	saveErr error
}

func newModel(opts Options) model {
	theme := themeByName(opts.ThemeName)
	styles := theme.Styles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Accent

	return model{
		ctx:       opts.Context,
		client:    opts.Client,
		store:     opts.Store,
		keys:      defaultKeyMap(),
		theme:     theme,
		styles:    styles,
		spinner:   sp,
		prefsPath: opts.PrefsPath,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// The view reads the store directly; the tick only schedules the
		// next render.
		return m, tickCmd()

	case pendingChangedMsg:
		// A preference was pended locally; re-render immediately.
		return m, nil

	case prefsReloadedMsg:
		m.theme = themeByName(msg.theme)
		m.styles = m.theme.Styles()
		m.spinner.Style = m.styles.Accent
		return m, nil

	case prefsSavedMsg:
		m.saveErr = msg.err
		return m, nil

	case operationMsg:
		return m.updateOperation(msg)

	case spinner.TickMsg:
		if m.op == nil || m.op.Done() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m model) updateOperation(msg operationMsg) (tea.Model, tea.Cmd) {
	m.opErr = msg.err
	if msg.err != nil {
		m.op = nil
		return m, nil
	}
	op := msg.op
	m.op = &op
	if op.Done() {
		return m, nil
	}
	return m, tea.Batch(
		m.spinner.Tick,
		pollOpCmd(m.ctx, m.client, op.OperationID),
	)
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Confirmation prompt swallows everything except confirm/cancel.
	if m.confirm != confirmNone {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			action := m.confirm
			m.confirm = confirmNone
			return m, m.startConfirmed(action)
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
			m.confirm = confirmNone
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.Tab):
		m.panel = (m.panel + 1) % panelCount
		m.cursor = 0

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.panelLen()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = nextTheme(m.theme.Name)
		m.styles = m.theme.Styles()
		m.spinner.Style = m.styles.Accent
		_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})

	case key.Matches(msg, m.keys.CycleTimezone):
		next := nextTimezoneMode(m.store.TimezoneMode())
		updated := m.store.SetTimezoneMode(next)
		return m, savePrefsCmd(m.ctx, m.client, updated)

	case key.Matches(msg, m.keys.HideUnknown):
		hide := !m.store.Snapshot().Prefs.HideUnknownGames
		updated := m.store.SetHideUnknownGames(hide)
		return m, savePrefsCmd(m.ctx, m.client, updated)

	case key.Matches(msg, m.keys.FasterRefresh):
		return m.adjustRefresh(-5)

	case key.Matches(msg, m.keys.SlowerRefresh):
		return m.adjustRefresh(5)

	case key.Matches(msg, m.keys.ClearCache):
		if m.selectedService() != "" {
			m.confirm = confirmClearCache
		}

	case key.Matches(msg, m.keys.RemoveGame):
		if d := m.selectedDownload(); d != nil && d.AppID != 0 {
			m.confirm = confirmRemoveGame
		}

	case key.Matches(msg, m.keys.ProcessLogs):
		return m, startOpCmd(m.ctx, m.client.ProcessLogs)

	case key.Matches(msg, m.keys.ResetDatabase):
		m.confirm = confirmResetDatabase
	}

	return m, nil
}

// adjustRefresh nudges the refresh interval preference, clamped to 5..120s.
func (m model) adjustRefresh(delta int) (tea.Model, tea.Cmd) {
	current := m.store.Snapshot().Prefs.RefreshIntervalSeconds
	next := current + delta
	if next < 5 {
		next = 5
	}
	if next > 120 {
		next = 120
	}
	if next == current {
		return m, nil
	}
	updated := m.store.SetRefreshInterval(next)
	return m, savePrefsCmd(m.ctx, m.client, updated)
}

func (m model) startConfirmed(action confirmAction) tea.Cmd {
	switch action {
	case confirmClearCache:
		service := m.selectedService()
		if service == "" {
			return nil
		}
		return startOpCmd(m.ctx, func(ctx context.Context) (lancache.Operation, error) {
			return m.client.ClearServiceCache(ctx, service)
		})
	case confirmRemoveGame:
		d := m.selectedDownload()
		if d == nil || d.AppID == 0 {
			return nil
		}
		appID := d.AppID
		return startOpCmd(m.ctx, func(ctx context.Context) (lancache.Operation, error) {
			return m.client.RemoveGameFromCache(ctx, appID)
		})
	case confirmResetDatabase:
		return startOpCmd(m.ctx, m.client.ResetDatabase)
	}
	return nil
}

func (m model) panelLen() int {
	snap := m.store.Snapshot()
	if m.panel == panelServices {
		return len(snap.Services)
	}
	return len(visibleDownloads(snap))
}

func (m model) selectedService() string {
	if m.panel != panelServices {
		return ""
	}
	services := m.store.Snapshot().Services
	if m.cursor < 0 || m.cursor >= len(services) {
		return ""
	}
	return services[m.cursor].Service
}

func (m model) selectedDownload() *lancache.Download {
	if m.panel != panelDownloads {
		return nil
	}
	downloads := visibleDownloads(m.store.Snapshot())
	if m.cursor < 0 || m.cursor >= len(downloads) {
		return nil
	}
	return &downloads[m.cursor]
}

// visibleDownloads applies the hide-unknown-games preference.
func visibleDownloads(snap state.Snapshot) []lancache.Download {
	if !snap.Prefs.HideUnknownGames {
		return snap.Downloads
	}
	out := make([]lancache.Download, 0, len(snap.Downloads))
	for _, d := range snap.Downloads {
		if d.Game != "" {
			out = append(out, d)
		}
	}
	return out
}

// nextTimezoneMode cycles through the four composite modes.
func nextTimezoneMode(mode optimistic.TimezoneMode) optimistic.TimezoneMode {
	order := []optimistic.TimezoneMode{
		optimistic.TimezoneServer24,
		optimistic.TimezoneServer12,
		optimistic.TimezoneLocal24,
		optimistic.TimezoneLocal12,
	}
	for i, m := range order {
		if m == mode {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}
