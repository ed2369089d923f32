package repl

import tea "github.com/charmbracelet/bubbletea"

// inputState is the text and cursor of the input line.
type inputState struct {
	text   string
	cursor int
}

func (m model) saveInput() inputState {
	return inputState{text: m.input.Value(), cursor: m.input.Position()}
}

func (m *model) restoreInput(s inputState) {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
}

// resetHistory moves past the newest entry, optionally clearing the input.
func (m *model) resetHistory(clearInput bool) {
	m.historyIdx = m.history.Len()

	if clearInput {
		m.input.SetValue("")
		refreshMatches(m, false)
	}
}

func (m model) viewingHistory() bool {
	return m.historyIdx < m.history.Len()
}

// historyStep moves through all entries, switching to each entry's mode.
func (m model) historyStep(dir int) (model, tea.Cmd) {
	i := m.historyIdx + dir

	switch {
	case i < 0:
		return m, nil

	case i >= m.history.Len():
		if m.viewingHistory() {
			m.resetHistory(true)
		}

		return m, nil
	}

	return m.showEntry(i, true), nil
}

// showEntry loads history entry i into the input, switching to its mode when
// switchMode is set.
func (m model) showEntry(i int, switchMode bool) model {
	entry, err := m.history.GetEntry(i)
	if err != nil {
		return m
	}

	if switchMode && m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.restoreInput(inputState{text: entry.Line, cursor: len(entry.Line)})
	refreshMatches(&m, false)

	return m
}

// findEntry returns the index of the nearest entry in mode, searching from
// the current position in direction dir, or -1.
func (m model) findEntry(mode inputMode, dir int) int {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == mode {
			return i
		}
	}

	return -1
}

// historyInMode moves through the entries of the current mode only.
func (m model) historyInMode(dir int) (model, tea.Cmd) {
	if i := m.findEntry(m.mode, dir); i >= 0 {
		return m.showEntry(i, false), nil
	}

	if dir > 0 && m.viewingHistory() {
		m.resetHistory(true)
	}

	return m, nil
}

// historyCtrl moves through command history, switching to command mode on
// first use. Running off either end restores the mode and input that were
// active before.
func (m model) historyCtrl(dir int) (model, tea.Cmd) {
	if !m.altNav.active {
		m.altNav = altNav{active: true, mode: m.mode, input: m.saveInput()}
		m = m.switchToMode(modeCtrl)
	}

	if i := m.findEntry(modeCtrl, dir); i >= 0 {
		return m.showEntry(i, false), nil
	}

	orig := m.altNav
	m.altNav = altNav{}
	m = m.switchToMode(orig.mode)
	m.restoreInput(orig.input)
	m.resetHistory(false)
	refreshMatches(&m, false)

	return m, nil
}

// switchToMode switches to mode, saving the input of the mode being left and
// restoring the input last seen in mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == mode {
		return m
	}

	m.saved[m.mode] = m.saveInput()
	m.mode = mode
	m.input.Prompt = prompts[mode].String()
	m.restoreInput(m.saved[mode])
	refreshMatches(&m, false)

	return m
}
