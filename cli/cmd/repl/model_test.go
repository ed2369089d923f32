package repl

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/log"
)

func newTestModel(t *testing.T, history *History) model {
	t.Helper()

	if history == nil {
		history = NewHistory("")
	}

	s := &session{interp: lang.NewInterpreter()}

	return newModel(t.Context(), s, history, log.Logger{})
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) model {
	t.Helper()

	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}

	return m
}

func runes(s string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return keys
}

func TestModel_ToggleMode(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(t, m, runes("x = 1")...)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after esc: mode = %v, input = %q", m.mode, m.input.Value())
	}

	m = press(t, m, runes("en")...)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeEval || m.input.Value() != "x = 1" {
		t.Errorf("after second esc: mode = %v, input = %q", m.mode, m.input.Value())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.input.Value() != "en" {
		t.Errorf("command input not restored: %q", m.input.Value())
	}
}

func TestModel_TabCompletesCommand(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = press(t, m, runes("he")...)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	if got := m.input.Value(); got != "help" {
		t.Errorf("input = %q, want %q", got, "help")
	}

	if m.tab.active {
		t.Error("single candidate left tab cycling active")
	}
}

func TestModel_TabCycleRestoredByEsc(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = press(t, m, runes("e")...)

	if len(m.matches) < 2 {
		t.Fatalf("matches = %v, want several", m.matches)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	if !m.tab.active || m.input.Value() != m.matches[0].Str {
		t.Fatalf("tab: active = %v, input = %q", m.tab.active, m.input.Value())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})

	if m.suggIdx != 0 && m.input.Value() != m.matches[m.suggIdx].Str {
		t.Errorf("shift+tab: input = %q", m.input.Value())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.tab.active || m.input.Value() != "e" || m.mode != modeCtrl {
		t.Errorf("esc: active = %v, input = %q, mode = %v",
			m.tab.active, m.input.Value(), m.mode)
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	history := NewHistory("")
	for _, e := range []HistoryEntry{
		{Line: "x = 1", Mode: modeEval},
		{Line: "env", Mode: modeCtrl},
		{Line: "print x", Mode: modeEval},
	} {
		if err := history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m := newTestModel(t, history)

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}

	steps := []struct {
		key  tea.KeyMsg
		line string
		mode inputMode
	}{
		{up, "print x", modeEval},
		{up, "env", modeCtrl},
		{up, "x = 1", modeEval},
		{up, "x = 1", modeEval},
		{down, "env", modeCtrl},
		{tea.KeyMsg{Type: tea.KeyShiftDown}, "", modeCtrl},
		{tea.KeyMsg{Type: tea.KeyShiftUp}, "env", modeCtrl},
		{down, "print x", modeEval},
		{down, "", modeEval},
	}

	for i, step := range steps {
		m = press(t, m, step.key)

		if m.input.Value() != step.line || m.mode != step.mode {
			t.Fatalf("step %d (%s): input = %q, mode = %v; want %q, %v",
				i, step.key, m.input.Value(), m.mode, step.line, step.mode)
		}
	}

	if m.viewingHistory() {
		t.Error("still viewing history after moving past the newest entry")
	}
}

func TestModel_CommandHistoryRestores(t *testing.T) {
	history := NewHistory("")
	if err := history.Add("env", modeCtrl); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, history)
	m = press(t, m, runes("y = 2")...)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp, Alt: true})

	if m.mode != modeCtrl || m.input.Value() != "env" {
		t.Fatalf("alt+up: mode = %v, input = %q", m.mode, m.input.Value())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown, Alt: true})

	if m.mode != modeEval || m.input.Value() != "y = 2" || m.altNav.active {
		t.Errorf("alt+down: mode = %v, input = %q, active = %v",
			m.mode, m.input.Value(), m.altNav.active)
	}
}

func TestModel_SubmitRunsInBackground(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(t, m, runes("print 1")...)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	if cmd == nil || !m.running {
		t.Fatalf("enter: cmd = %v, running = %v", cmd, m.running)
	}

	if m.history.Len() != 1 || m.input.Value() != "" {
		t.Errorf("history = %d entries, input = %q", m.history.Len(), m.input.Value())
	}

	// Keys other than Ctrl+C are ignored while running.
	m = press(t, m, runes("z")...)

	if m.input.Value() != "" {
		t.Errorf("input changed while running: %q", m.input.Value())
	}

	if !strings.Contains(m.View(), "Running") {
		t.Errorf("View() = %q, want running hint", m.View())
	}

	next, _ = m.Update(evalDoneMsg{output: "1"})
	m = next.(model)

	if m.running {
		t.Error("still running after evalDoneMsg")
	}
}

func TestModel_CtrlCOnEmptyQuits(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(t, m, runes("abc")...)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	if m.quitting || m.input.Value() != "" {
		t.Fatalf("first ctrl+c: quitting = %v, input = %q", m.quitting, m.input.Value())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c on empty line returned no command")
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c on empty line did not quit")
	}
}

func TestLookupCommand(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"help", "h", "q", "exit", "quit", "e", "env"} {
		if _, ok := lookupCommand(name); !ok {
			t.Errorf("lookupCommand(%q) not found", name)
		}
	}

	if _, ok := lookupCommand("nope"); ok {
		t.Error("lookupCommand(nope) found")
	}

	names := ctrlCommands()
	if len(names) != len(commands()) || names[0] != "help" {
		t.Errorf("ctrlCommands() = %v", names)
	}
}
