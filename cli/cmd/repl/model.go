package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/log"
)

const (
	defaultWidth = 80
	maxInput     = 1024
)

// tabCycle is the state of Tab/Shift-Tab cycling through candidates.
type tabCycle struct {
	active bool
	orig   inputState // input before cycling began
}

// altNav is the state of Alt+Up/Alt+Down command history navigation.
type altNav struct {
	active bool
	mode   inputMode  // mode before navigation began
	input  inputState // input before navigation began
}

// model is the Bubble Tea model of the interactive REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	keys       keyMap
	help       help.Model
	session    *session
	logger     log.Logger
	history    *History
	historyIdx int

	matches    fuzzy.Matches
	candidates candidateSet
	wordStart  int // byte offset of the word being completed
	wordEnd    int
	suggIdx    int // selected candidate, or -1
	tab        tabCycle
	altNav     altNav

	mode  inputMode
	saved [modeCtrl + 1]inputState // input last seen in each mode

	width      int
	running    bool
	cancelEval context.CancelFunc
	quitting   bool
}

func newModel(
	ctx context.Context,
	s *session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = prompts[modeEval].String()
	ti.CharLimit = maxInput
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		keys:       newKeyMap(),
		help:       help.New(),
		session:    s,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		mode:       modeEval,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.running {
			// The interpreter owns the globals until it finishes, so only an
			// interrupt is honored.
			if key.Matches(msg, m.keys.interrupt) && m.cancelEval != nil {
				m.logger.TraceContext(m.ctxFunc(), "repl interrupt")
				m.cancelEval()
			}

			return m, nil
		}

		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 1

		return m, nil

	case evalDoneMsg:
		return m.handleEvalDone(msg)

	case editDoneMsg:
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("statements", len(msg.prog.Statements)),
		)

		return m.startEval(func(ctx context.Context) ([]*lang.SyntaxError, error) {
			return msg.prog.Warnings, m.session.run(ctx, msg.prog)
		})

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled."))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit discarded."))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("🗴 error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.statusLine() + "\n"
}

// statusLine renders the line below the input: the history position, a
// usage hint, the signature of the enclosing call, or the candidates.
func (m model) statusLine() string {
	if m.running {
		return hintStyle.Render("Running... (Ctrl+C to interrupt)")
	}

	input := m.input.Value()

	if m.viewingHistory() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeCtrl {
			return hintStyle.Render(
				"Type: " + strings.Join(ctrlCommands(), ", ") + " (press Esc to return)",
			)
		}

		return m.help.ShortHelpView(m.keys.ShortHelp())
	}

	if m.mode == modeEval {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			sig, params := getSignature(m.session.interp.Globals(), call.name)
			if sig != "" {
				return renderSignatureHint(sig, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(
		m.matches, m.candidates.callable, m.suggIdx, m.tab.active, m.width,
	)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	empty := m.input.Value() == ""

	switch {
	case key.Matches(msg, m.keys.interrupt):
		if empty {
			return m.cmdQuit(nil)
		}

		m.input.SetValue("")
		m.tab.active = false
		m.altNav = altNav{}
		m.resetHistory(false)
		refreshMatches(&m, false)

		return m, nil

	case key.Matches(msg, m.keys.eof):
		if empty {
			return m.cmdQuit(nil)
		}

		return m, nil

	case key.Matches(msg, m.keys.submit):
		m.altNav = altNav{}

		if !m.tab.active || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tab.active = false
		refreshMatches(&m, true)

		return m, nil

	case key.Matches(msg, m.keys.next):
		return m.cycle(1)

	case key.Matches(msg, m.keys.prev):
		return m.cycle(-1)

	case key.Matches(msg, m.keys.olderCtrl):
		return m.historyCtrl(-1)

	case key.Matches(msg, m.keys.newerCtrl):
		return m.historyCtrl(1)

	case key.Matches(msg, m.keys.olderMode):
		return m.historyInMode(-1)

	case key.Matches(msg, m.keys.newerMode):
		return m.historyInMode(1)

	case key.Matches(msg, m.keys.older):
		return m.historyStep(-1)

	case key.Matches(msg, m.keys.newer):
		return m.historyStep(1)

	case key.Matches(msg, m.keys.toggle):
		if m.tab.active {
			m.tab.active = false
			m.restoreInput(m.tab.orig)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNav = altNav{}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case key.Matches(msg, m.keys.accept):
		m.tab.active = false

		return m.typeKey(msg, true)

	case msg.Type == tea.KeyRunes:
		return m.typeKey(msg, true)
	}

	// Editing and cursor keys never complete automatically.
	m.tab.active = false
	m.altNav = altNav{}

	return m.typeKey(msg, false)
}

// typeKey passes msg to the input line and recomputes the candidates.
func (m model) typeKey(msg tea.KeyMsg, autoConfirm bool) (model, tea.Cmd) {
	var cmd tea.Cmd

	m.resetHistory(false)
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, autoConfirm)

	return m, cmd
}

// cycle moves the selection forward (dir > 0) or backward through the
// candidates, writing the selection into the input.
func (m model) cycle(dir int) (model, tea.Cmd) {
	n := len(m.matches)

	switch {
	case n == 0:
		return m, nil

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tab.active = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil

	case m.tab.active:
		m.suggIdx = (m.suggIdx + dir + n) % n

	case dir < 0:
		m.tab = tabCycle{active: true, orig: m.saveInput()}
		m.suggIdx = n - 1

	default:
		m.tab = tabCycle{active: true, orig: m.saveInput()}
		m.suggIdx = 0
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the word being completed with replacement and
// moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.restoreInput(inputState{
		text:   input[:m.wordStart] + replacement + input[m.wordEnd:],
		cursor: cursor,
	})

	m.wordEnd = cursor
}

// refreshMatches recomputes the candidates for the word at the cursor. With
// autoConfirm, a single candidate equal to the typed word is accepted.
// Deletions and cursor movement pass false so editing never completes
// unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tab.active {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tab.active = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [modeCtrl + 1]inputState{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed",
			slog.String("error", err.Error()),
		)
	}

	m.resetHistory(false)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl submit",
		slog.String("input", input),
		slog.Bool("command", m.mode == modeCtrl),
	)

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m, evalCmd := m.startEval(func(ctx context.Context) ([]*lang.SyntaxError, error) {
		return m.session.eval(ctx, input)
	})

	return m, tea.Sequence(tea.Println(prompts[modeEval].echo(input)), evalCmd)
}

// startEval runs fn in the background under a context that Ctrl+C cancels.
func (m model) startEval(
	fn func(ctx context.Context) ([]*lang.SyntaxError, error),
) (model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctxFunc())

	m.running = true
	m.cancelEval = cancel

	s := m.session

	return m, func() tea.Msg {
		defer cancel()

		warnings, err := fn(ctx)

		return evalDoneMsg{
			output:   s.drain(),
			warnings: warnings,
			err:      err,
			exited:   s.interp.Exited(),
		}
	}
}

func (m model) handleEvalDone(msg evalDoneMsg) (model, tea.Cmd) {
	m.running = false
	m.cancelEval = nil

	var cmds []tea.Cmd

	if msg.output != "" {
		cmds = append(cmds, tea.Println(msg.output))
	}

	for _, w := range msg.warnings {
		cmds = append(cmds, tea.Println(hintStyle.Render("warning: "+describe(w))))
	}

	if msg.err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render(describe(msg.err))))
	}

	if msg.exited {
		m.quitting = true
		cmds = append(cmds, tea.Println(resultStyle.Render(exitMessage)), tea.Quit)
	}

	refreshMatches(&m, false)

	return m, tea.Sequence(cmds...)
}
