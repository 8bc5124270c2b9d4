// ABOUTME: Tests for TUI model and state management
// ABOUTME: Frame advance, sync messages, resync commands and alarm entry
package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/tiktok-clock/internal/sync"
	"github.com/harperreed/tiktok-clock/internal/timesource"
)

type fakeSource struct {
	result timesource.Result
	calls  int
}

func (f *fakeSource) Fetch(ctx context.Context, p timesource.Provider) timesource.Result {
	f.calls++
	r := f.result
	r.Provider = p
	return r
}

func newTestModel(src *fakeSource) Model {
	return NewModel(Config{Source: src, Provider: timesource.UnixTime, Frame: time.Second / 60})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", next)
	}
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	model := newTestModel(&fakeSource{})

	if model.face.Digital != "00:00:00" {
		t.Errorf("expected zero face, got %q", model.face.Digital)
	}
	stats := model.clock.Stats()
	if stats.State != sync.StateAwaitingFirstSync {
		t.Errorf("expected awaiting first sync, got %v", stats.State)
	}
	if stats.InFlight != 1 {
		t.Errorf("expected startup fetch in flight, got %d", stats.InFlight)
	}
	if model.mode != modeClock {
		t.Error("expected clock mode initially")
	}
	if model.Init() == nil {
		t.Error("expected Init to return commands")
	}
}

func TestNewModelWithoutSource(t *testing.T) {
	m := NewModel(Config{Provider: timesource.UnixTime})

	if got := m.clock.Stats().InFlight; got != 0 {
		t.Errorf("expected no fetch in flight without a source, got %d", got)
	}
	if cmd := m.requestSync(); cmd != nil {
		t.Error("expected no resync command without a source")
	}
	if got := m.clock.Stats().InFlight; got != 0 {
		t.Errorf("resync without a source should not count a fetch, got %d", got)
	}
	if got := m.clock.State(); got != sync.StateAwaitingFirstSync {
		t.Errorf("expected awaiting first sync, got %v", got)
	}
}

func TestFetchCommandDeliversResult(t *testing.T) {
	src := &fakeSource{result: timesource.Result{ID: "x", Time: time.Date(1970, 1, 1, 4, 0, 0, 0, time.UTC)}}
	model := newTestModel(src)

	msg := model.fetch()()
	res, ok := msg.(syncMsg)
	if !ok {
		t.Fatalf("expected syncMsg, got %T", msg)
	}
	if src.calls != 1 {
		t.Errorf("expected 1 fetch, got %d", src.calls)
	}
	if res.Provider != timesource.UnixTime {
		t.Errorf("expected provider unixtime, got %v", res.Provider)
	}

	model, _ = update(t, model, res)
	if model.face.Digital != "04:00:00" {
		t.Errorf("expected 04:00:00 after sync, got %q", model.face.Digital)
	}
	if model.clock.State() != sync.StateSynced {
		t.Errorf("expected synced, got %v", model.clock.State())
	}
}

func TestFrameAdvancesClock(t *testing.T) {
	model := newTestModel(&fakeSource{})
	model, _ = update(t, model, syncMsg{Time: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)})

	t0 := time.Now()
	model, cmd := update(t, model, frameMsg(t0))
	if cmd == nil {
		t.Fatal("expected next frame to be scheduled")
	}
	if model.face.Digital != "08:00:00" {
		t.Errorf("first frame should not advance, got %q", model.face.Digital)
	}

	model, _ = update(t, model, frameMsg(t0.Add(1500*time.Millisecond)))
	model, _ = update(t, model, frameMsg(t0.Add(2500*time.Millisecond)))
	if model.face.Digital != "08:00:02" {
		t.Errorf("expected 08:00:02, got %q", model.face.Digital)
	}

	// frame timestamps going backwards must not rewind the clock
	model, _ = update(t, model, frameMsg(t0))
	if model.face.Digital != "08:00:02" {
		t.Errorf("clock moved backwards: %q", model.face.Digital)
	}
}

func TestFailedSyncKeepsFace(t *testing.T) {
	model := newTestModel(&fakeSource{})
	model, _ = update(t, model, syncMsg{Time: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)})

	model.clock.BeginSync()
	model, _ = update(t, model, syncMsg{Err: errors.New("timeout")})

	if model.face.Digital != "08:00:00" {
		t.Errorf("failed sync changed the face: %q", model.face.Digital)
	}
	if model.clock.Stats().Failures != 1 {
		t.Errorf("expected failure to be counted")
	}
}

func TestHourHandAtTwelveRequestsSync(t *testing.T) {
	model := newTestModel(&fakeSource{})
	model, _ = update(t, model, syncMsg{Time: time.Date(2024, 6, 1, 11, 59, 59, 0, time.UTC)})
	if model.clock.Stats().InFlight != 0 {
		t.Fatalf("expected nothing in flight after sync")
	}

	t0 := time.Now()
	model, _ = update(t, model, frameMsg(t0))
	model, _ = update(t, model, frameMsg(t0.Add(time.Second)))
	if model.face.Digital != "12:00:00" {
		t.Fatalf("expected 12:00:00, got %q", model.face.Digital)
	}
	if model.clock.Stats().InFlight != 1 {
		t.Errorf("expected a resync to be issued at 12, got %d in flight", model.clock.Stats().InFlight)
	}

	// staying on the mark does not issue more fetches
	model, _ = update(t, model, frameMsg(t0.Add(2*time.Second)))
	if model.clock.Stats().InFlight != 1 {
		t.Errorf("expected a single resync, got %d in flight", model.clock.Stats().InFlight)
	}
}

func TestManualResync(t *testing.T) {
	model := newTestModel(&fakeSource{})
	model, _ = update(t, model, syncMsg{Time: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)})

	model, cmd := update(t, model, runes("r"))
	if cmd == nil {
		t.Fatal("expected fetch command")
	}
	if model.clock.State() != sync.StateResyncing {
		t.Errorf("expected resyncing, got %v", model.clock.State())
	}
}

func TestAlarmEntryMasksDigits(t *testing.T) {
	model := newTestModel(&fakeSource{})

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	if model.mode != modeAlarm {
		t.Fatal("expected alarm mode after tab")
	}

	for i := 0; i < 6; i++ {
		model, _ = update(t, model, runes("9"))
	}
	if model.input != "23:59:59" {
		t.Errorf("expected masked input 23:59:59, got %q", model.input)
	}

	// letters are ignored
	model, _ = update(t, model, runes("x"))
	if model.input != "23:59:59" {
		t.Errorf("letter changed the input: %q", model.input)
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.mode != modeClock {
		t.Error("expected clock mode after enter")
	}
	if model.alarm.String() != "23:59:59" {
		t.Errorf("expected alarm 23:59:59, got %q", model.alarm.String())
	}
	if !strings.Contains(model.notice, "23:59:59") {
		t.Errorf("expected confirmation notice, got %q", model.notice)
	}
}

func TestAlarmBackspace(t *testing.T) {
	model := newTestModel(&fakeSource{})
	model, _ = update(t, model, runes("a"))

	for _, d := range []string{"1", "2", "3"} {
		model, _ = update(t, model, runes(d))
	}
	if model.input != "12:3" {
		t.Fatalf("expected 12:3, got %q", model.input)
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	if model.input != "12" {
		t.Errorf("expected 12 after backspace, got %q", model.input)
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	if model.input != "" {
		t.Errorf("expected empty input, got %q", model.input)
	}
}

func TestAlarmIncompleteRejected(t *testing.T) {
	model := newTestModel(&fakeSource{})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model, _ = update(t, model, runes("7"))
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	if model.mode != modeAlarm {
		t.Error("incomplete entry should stay in alarm mode")
	}
	if model.alarm.IsSet() {
		t.Error("incomplete entry should not set the alarm")
	}
	if model.notice == "" {
		t.Error("expected a notice for incomplete entry")
	}
}

func TestAlarmCancel(t *testing.T) {
	model := newTestModel(&fakeSource{})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model, _ = update(t, model, runes("1"))
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})

	if model.mode != modeClock {
		t.Error("expected clock mode after esc")
	}
	if model.input != "" || model.alarm.IsSet() {
		t.Error("cancel should discard the entry")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		model := newTestModel(&fakeSource{})
		model, cmd := update(t, model, key)
		if cmd == nil || !model.quitting {
			t.Errorf("%q should quit", key.String())
		}
	}

	// q is a literal keystroke while entering an alarm
	model := newTestModel(&fakeSource{})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model, _ = update(t, model, runes("q"))
	if model.quitting {
		t.Error("q should not quit from alarm mode")
	}
}

func TestDebugToggle(t *testing.T) {
	model := newTestModel(&fakeSource{})
	model, _ = update(t, model, runes("d"))
	if !model.showDebug {
		t.Error("expected debug on")
	}
	model, _ = update(t, model, runes("d"))
	if model.showDebug {
		t.Error("expected debug off")
	}
}

func TestView(t *testing.T) {
	model := newTestModel(&fakeSource{})
	if model.View() != "Loading..." {
		t.Errorf("expected loading view before size is known")
	}

	model, _ = update(t, model, tea.WindowSizeMsg{Width: 80, Height: 40})
	model, _ = update(t, model, syncMsg{Time: time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)})
	model, _ = update(t, model, runes("d"))

	view := model.View()
	for _, want := range []string{"15:04:05", "Alarm:", "off", "Synced via unixtime", "DEBUG"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model, _ = update(t, model, runes("1"))
	if !strings.Contains(model.View(), "1_:__:__") {
		t.Error("expected padded alarm input in view")
	}
}

func TestPadInput(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "__:__:__"},
		{"1", "1_:__:__"},
		{"12:3", "12:3_:__"},
		{"12:34:56", "12:34:56"},
	}

	for _, tt := range tests {
		if got := padInput(tt.input); got != tt.expected {
			t.Errorf("padInput(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"this is longer than allowed", 10, "this is..."},
		{"", 10, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tt.input, tt.maxLen, got, tt.expected)
		}
	}
}
