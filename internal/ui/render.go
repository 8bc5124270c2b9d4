// ABOUTME: View helpers for the clock TUI
// ABOUTME: Header, alarm field, debug panel and key help
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/tiktok-clock/internal/sync"
	"github.com/harperreed/tiktok-clock/internal/version"
)

const dialRadius = 6

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	dialStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	digitalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)

	inputStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color("229"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// renderHeader renders the title and sync status
func (m Model) renderHeader() string {
	stats := m.clock.Stats()

	icon := "✗"
	status := "Waiting for first sync"
	switch stats.State {
	case sync.StateSynced:
		icon = "✓"
		status = fmt.Sprintf("Synced via %s", m.provider)
	case sync.StateResyncing:
		icon = "⟳"
		status = fmt.Sprintf("Resyncing via %s", m.provider)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(version.Product))
	b.WriteString(valueStyle.Render(" v" + version.Version))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Sync: "))
	b.WriteString(valueStyle.Render(icon + " " + status))
	if stats.LastError != nil {
		b.WriteString(warnStyle.Render(" (last attempt failed)"))
	}
	b.WriteString("\n\n")
	return b.String()
}

// renderAlarm renders either the alarm summary or the entry field
func (m Model) renderAlarm() string {
	var b strings.Builder

	if m.mode == modeAlarm {
		b.WriteString(headerStyle.Render("Set alarm: "))
		b.WriteString(inputStyle.Render(padInput(m.input)))
	} else {
		b.WriteString(headerStyle.Render("Alarm: "))
		if m.alarm.IsSet() {
			b.WriteString(valueStyle.Render(m.alarm.String()))
		} else {
			b.WriteString(valueStyle.Render("off"))
		}
	}
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(warnStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// renderDebug renders sync counters and fetch latency
func (m Model) renderDebug() string {
	stats := m.clock.Stats()
	lat := m.latency.Summary()

	lastSync := "never"
	if !stats.LastSync.IsZero() {
		lastSync = time.Since(stats.LastSync).Round(time.Second).String() + " ago"
	}

	lines := []string{
		fmt.Sprintf("State:     %s", stats.State),
		fmt.Sprintf("In flight: %d", stats.InFlight),
		fmt.Sprintf("Syncs:     %d  Failures: %d", stats.Syncs, stats.Failures),
		fmt.Sprintf("Last sync: %s", lastSync),
		fmt.Sprintf("Latency:   p50 %v  p95 %v  max %v (%d samples)",
			lat.P50.Round(time.Millisecond), lat.P95.Round(time.Millisecond),
			lat.Max.Round(time.Millisecond), lat.Count),
		fmt.Sprintf("Angles:    h %.1f°  m %.1f°  s %.1f°", m.face.Hour, m.face.Minute, m.face.Second),
	}
	if stats.LastError != nil {
		lines = append(lines, "Error:     "+truncate(stats.LastError.Error(), 60))
	}

	return headerStyle.Render("DEBUG") + "\n" + valueStyle.Render(strings.Join(lines, "\n")) + "\n\n"
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	if m.mode == modeAlarm {
		return helpStyle.Render("0-9:Digits  backspace:Delete  enter:Set  esc/tab:Cancel")
	}
	return helpStyle.Render("tab:Set alarm  c:Clear alarm  r:Resync  d:Debug  q:Quit")
}

// padInput shows the unfilled part of HH:MM:SS as underscores
func padInput(s string) string {
	const template = "__:__:__"
	if len(s) >= len(template) {
		return s
	}
	return s + template[len(s):]
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
