// ABOUTME: Bubbletea model for the clock TUI
// ABOUTME: Frame ticks advance the clock; fetches run as commands and report back as messages
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/tiktok-clock/internal/alarm"
	"github.com/harperreed/tiktok-clock/internal/face"
	"github.com/harperreed/tiktok-clock/internal/sync"
	"github.com/harperreed/tiktok-clock/internal/timesource"
)

type mode int

const (
	modeClock mode = iota
	modeAlarm
)

// Config holds TUI configuration
type Config struct {
	Source   timesource.Source
	Provider timesource.Provider
	Frame    time.Duration
}

// Model represents the TUI state
type Model struct {
	clock    *sync.Clock
	source   timesource.Source
	provider timesource.Provider
	latency  *timesource.Latency
	frame    time.Duration

	face      face.Face
	lastFrame time.Time

	// Alarm entry
	mode   mode
	input  string
	alarm  alarm.Alarm
	notice string

	showDebug bool
	quitting  bool

	// Dimensions
	width  int
	height int
}

type frameMsg time.Time

type syncMsg timesource.Result

// NewModel creates the model and renders the initial face. The startup fetch
// is issued by Init; without a Source the clock just runs from zero.
func NewModel(config Config) Model {
	if config.Frame <= 0 {
		config.Frame = time.Second / 30
	}

	clock := sync.NewClock()
	f := clock.Start()
	if config.Source != nil {
		clock.BeginSync()
	}

	return Model{
		clock:    clock,
		source:   config.Source,
		provider: config.Provider,
		latency:  timesource.NewLatency(32),
		frame:    config.Frame,
		face:     f,
	}
}

// Init starts the frame loop and the startup fetch
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.frameTick(), m.fetch())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		return m.handleFrame(time.Time(msg))
	case syncMsg:
		m.applySync(timesource.Result(msg))
	}

	return m, nil
}

func (m Model) frameTick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// fetch runs one lookup off the update loop and delivers the result back to it
func (m Model) fetch() tea.Cmd {
	source, provider := m.source, m.provider
	if source == nil {
		return nil
	}
	return func() tea.Msg {
		return syncMsg(source.Fetch(context.Background(), provider))
	}
}

// handleFrame advances the clock by the wall time since the previous frame
func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	var dt time.Duration
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame)
	}
	m.lastFrame = now

	f, resync := m.clock.Advance(dt)
	m.face = f

	if resync {
		return m, tea.Batch(m.frameTick(), m.requestSync())
	}
	return m, m.frameTick()
}

func (m Model) requestSync() tea.Cmd {
	if m.source == nil {
		return nil
	}
	m.clock.BeginSync()
	return m.fetch()
}

func (m *Model) applySync(r timesource.Result) {
	m.latency.Record(r)
	m.clock.ApplySync(r)
	m.face = m.clock.Face()
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.mode == modeAlarm {
		return m.handleAlarmKey(key)
	}

	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab", "a":
		m.mode = modeAlarm
		m.input = m.alarm.String()
		m.notice = ""
	case "r":
		return m, m.requestSync()
	case "c":
		m.alarm.Clear()
		m.notice = "Alarm cleared"
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// handleAlarmKey edits the alarm field; every edit is re-masked
func (m Model) handleAlarmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab", "esc":
		m.mode = modeClock
		m.input = ""
		m.notice = ""
	case "enter":
		if err := m.alarm.Set(m.input); err != nil {
			m.notice = "Enter all six digits (HH:MM:SS)"
			return m, nil
		}
		m.mode = modeClock
		m.input = ""
		m.notice = fmt.Sprintf("Alarm set for %s", m.alarm)
	case "backspace":
		m.input = strings.TrimSuffix(m.input, ":")
		if m.input != "" {
			m.input = m.input[:len(m.input)-1]
		}
		m.input = alarm.Mask(m.input)
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			m.input = alarm.Mask(m.input + key)
			m.notice = ""
		}
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Stopping clock...\n"
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(dialStyle.Render(renderDial(m.face, dialRadius)))
	b.WriteString("\n")
	b.WriteString(digitalStyle.Render(m.face.Digital))
	b.WriteString("\n\n")
	b.WriteString(m.renderAlarm())

	if m.showDebug {
		b.WriteString(m.renderDebug())
	}

	b.WriteString(m.renderHelp())
	return b.String()
}
