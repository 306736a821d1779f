package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cachewatch/cachewatch/internal/state"
)

func (m model) View() string {
	snap := m.store.Snapshot()

	sections := []string{
		m.headerView(snap),
		m.panelView(snap),
		m.statusView(snap),
		m.footerView(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) headerView(snap state.Snapshot) string {
	title := m.styles.Title.Render("cachewatch")

	var status string
	switch {
	case snap.IsOffline():
		status = m.styles.Danger.Render("OFFLINE")
	case !snap.HasData:
		status = m.styles.Muted.Render("waiting for data...")
	default:
		status = m.styles.Success.Render("connected")
	}

	line := title + "  " + status
	if !snap.HasData {
		return m.styles.Panel.Render(line)
	}

	usage := fmt.Sprintf("cache %s / %s",
		formatBytes(snap.Cache.UsedBytes), formatBytes(snap.Cache.TotalBytes))
	ratio := "hit ratio " + formatPercent(snap.Cache.HitRatio())

	parts := []string{line, m.styles.Text.Render(usage), m.styles.Accent.Render(ratio)}
	if snap.HasNetwork {
		parts = append(parts, m.styles.Muted.Render(
			fmt.Sprintf("%d conns", int(snap.Network.ActiveConnections))))
	}
	return m.styles.Panel.Render(strings.Join(parts, "  │  "))
}

func (m model) panelView(snap state.Snapshot) string {
	if m.panel == panelServices {
		return m.servicesView(snap)
	}
	return m.downloadsView(snap)
}

func (m model) servicesView(snap state.Snapshot) string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("SERVICES"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(
		fmt.Sprintf("%-12s %12s %12s %12s %6s", "service", "total", "hit", "miss", "dls")))
	b.WriteString("\n")

	if len(snap.Services) == 0 {
		b.WriteString(m.styles.Muted.Render("no traffic recorded yet"))
		return m.styles.Panel.Render(b.String())
	}

	for i, svc := range snap.Services {
		row := fmt.Sprintf("%-12s %12s %12s %12s %6d",
			svc.Service,
			formatBytes(svc.TotalBytes),
			formatBytes(svc.HitBytes),
			formatBytes(svc.MissBytes),
			svc.Downloads)
		if m.panel == panelServices && i == m.cursor {
			row = m.styles.Selected.Render(row)
		} else {
			row = m.styles.Text.Render(row)
		}
		b.WriteString(row)
		if i < len(snap.Services)-1 {
			b.WriteString("\n")
		}
	}
	return m.styles.Panel.Render(b.String())
}

func (m model) downloadsView(snap state.Snapshot) string {
	var b strings.Builder
	heading := "DOWNLOADS"
	if snap.Prefs.HideUnknownGames {
		heading += m.styles.Muted.Render("  (unknown hidden)")
	}
	b.WriteString(m.styles.Accent.Render(heading))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(
		fmt.Sprintf("%-10s %-24s %-15s %10s %10s %9s", "service", "game", "client", "hit", "miss", "last")))
	b.WriteString("\n")

	downloads := visibleDownloads(snap)
	if len(downloads) == 0 {
		b.WriteString(m.styles.Muted.Render("no downloads"))
		return m.styles.Panel.Render(b.String())
	}

	for i, d := range downloads {
		game := d.Game
		if game == "" {
			game = "(unknown)"
		}
		row := fmt.Sprintf("%-10s %-24.24s %-15s %10s %10s %9s",
			d.Service,
			game,
			d.ClientIP,
			formatBytes(d.HitBytes),
			formatBytes(d.MissBytes),
			formatClock(d.LastActivityTime(), snap.Prefs))
		if m.panel == panelDownloads && i == m.cursor {
			row = m.styles.Selected.Render(row)
		} else if d.Active {
			row = m.styles.Success.Render(row)
		} else {
			row = m.styles.Text.Render(row)
		}
		b.WriteString(row)
		if i < len(downloads)-1 {
			b.WriteString("\n")
		}
	}
	return m.styles.Panel.Render(b.String())
}

func (m model) statusView(snap state.Snapshot) string {
	if m.confirm != confirmNone {
		return m.styles.Warning.Render(m.confirmPrompt() + "  (y to confirm, esc to cancel)")
	}

	var parts []string
	if m.op != nil {
		line := fmt.Sprintf("%s %.0f%% %s", m.op.Status, m.op.PercentComplete, m.op.Message)
		if m.op.Done() {
			if m.op.Success {
				parts = append(parts, m.styles.Success.Render(line))
			} else {
				parts = append(parts, m.styles.Danger.Render(line))
			}
		} else {
			parts = append(parts, m.spinner.View()+" "+m.styles.Text.Render(line))
		}
	}
	if m.opErr != nil {
		parts = append(parts, m.styles.Danger.Render("operation failed: "+m.opErr.Error()))
	}
	if m.saveErr != nil {
		parts = append(parts, m.styles.Warning.Render("pref save failed: "+m.saveErr.Error()))
	}
	if snap.LastError != nil {
		parts = append(parts, m.styles.Muted.Render(
			fmt.Sprintf("last error %s (%s ago)", snap.LastError, formatAge(snap.LastUpdated))))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n")
}

func (m model) confirmPrompt() string {
	switch m.confirm {
	case confirmClearCache:
		return fmt.Sprintf("clear all cached data for %q?", m.selectedService())
	case confirmRemoveGame:
		if d := m.selectedDownload(); d != nil {
			return fmt.Sprintf("remove %q (app %d) from cache?", d.Game, d.AppID)
		}
	case confirmResetDatabase:
		return "reset the download history database?"
	}
	return ""
}

func (m model) footerView() string {
	mode := string(m.store.TimezoneMode())
	refresh := m.store.Snapshot().Prefs.RefreshIntervalSeconds

	if m.showHelp {
		help := strings.Join([]string{
			"tab panels", "↑/↓ move", "t timezone", "u hide unknown",
			"+/- refresh", "C clear svc", "X remove game", "P process logs",
			"R reset db", "T theme", "q quit",
		}, "  ")
		return m.styles.Footer.Render(help)
	}

	return m.styles.Footer.Render(
		fmt.Sprintf("tz %s  refresh %ds  ? help  q quit", mode, refresh))
}
