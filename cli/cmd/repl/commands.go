package repl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/flux/lang"
)

// command is a REPL command entered in command mode.
type command struct {
	name    string
	aliases []string
	help    string
	run     func(m model, args []string) (model, tea.Cmd)
}

// commands returns the REPL commands in the order they are listed by help.
func commands() []command {
	return []command{
		{"help", []string{"h"}, "Print this cruft", model.cmdHelp},
		{"env", nil, "List global bindings", model.cmdEnv},
		{"edit", []string{"e"}, "Edit and run statements in external $EDITOR", model.cmdEdit},
		{"clear", []string{"c"}, "Clear screen", model.cmdClear},
		{"quit", []string{"q", "exit"}, "Exit REPL", model.cmdQuit},
	}
}

// ctrlCommands returns the completion candidates of command mode.
func ctrlCommands() []string {
	cmds := commands()

	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.name
	}

	return names
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands() {
		if c.name == name {
			return c, true
		}

		for _, alias := range c.aliases {
			if alias == name {
				return c, true
			}
		}
	}

	return command{}, false
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return m, nil
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", fields[0]),
		slog.Any("args", fields[1:]),
	)

	c, ok := lookupCommand(fields[0])
	if !ok {
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + fields[0] + " (try 'help')"),
		)
	}

	m, cmd := c.run(m, fields[1:])

	return m, tea.Sequence(tea.Println(prompts[modeCtrl].echo(input)), cmd)
}

func (m model) cmdQuit([]string) (model, tea.Cmd) {
	m.quitting = true

	return m, tea.Quit
}

func (m model) cmdClear([]string) (model, tea.Cmd) {
	return m, tea.ClearScreen
}

func (m model) cmdHelp([]string) (model, tea.Cmd) {
	var b strings.Builder

	b.WriteString("\n: Commands (press Esc to toggle mode):\n\n")

	for _, c := range commands() {
		fmt.Fprintf(&b, "  %-8s %s\n", c.name, c.help)
	}

	b.WriteString("\nKeys:\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n")

	return m, tea.Println(b.String())
}

func (m model) cmdEnv([]string) (model, tea.Cmd) {
	var b strings.Builder

	for name, v := range m.session.interp.Bindings(false) {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(v)))
	}

	if b.Len() == 0 {
		return m, tea.Println(hintStyle.Render("  (no bindings)"))
	}

	return m, tea.Println(strings.TrimSuffix(b.String(), "\n"))
}

// cmdEdit opens the last accepted buffer in $EDITOR and runs the result.
func (m model) cmdEdit([]string) (model, tea.Cmd) {
	edit := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		source:  m.session.edited,
	}

	s := m.session

	return m, tea.Exec(edit, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case edit.prog == nil:
			return editCancelledMsg{}
		}

		s.edited = edit.source

		return editDoneMsg{prog: edit.prog}
	})
}

// preview returns a short rendering of v.
func preview(v lang.Value) string {
	const maxPreview = 40

	text := v.Kind() + " " + lang.Stringify(v)
	if fn, ok := v.(*lang.Function); ok {
		names := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			names[i] = p.Lexeme
		}

		text = "(" + strings.Join(names, ", ") + ")"
	}

	if len(text) > maxPreview {
		return text[:maxPreview-3] + "..."
	}

	return text
}
