package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the dashboard.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Tab        key.Binding
	Up         key.Binding
	Down       key.Binding
	CycleTheme key.Binding

	// Preference toggles
	CycleTimezone key.Binding
	HideUnknown   key.Binding
	FasterRefresh key.Binding
	SlowerRefresh key.Binding

	// Admin actions
	ClearCache    key.Binding
	RemoveGame    key.Binding
	ProcessLogs   key.Binding
	ResetDatabase key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "cycle theme"),
		),
		CycleTimezone: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "timezone mode"),
		),
		HideUnknown: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "hide unknown games"),
		),
		FasterRefresh: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "faster refresh"),
		),
		SlowerRefresh: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "slower refresh"),
		),
		ClearCache: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear service cache"),
		),
		RemoveGame: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "remove game from cache"),
		),
		ProcessLogs: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "process logs"),
		),
		ResetDatabase: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset database"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
