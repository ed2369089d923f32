package repl

import "github.com/charmbracelet/lipgloss"

var (
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// inputMode selects whether a submitted line is a program or a REPL command.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// prompt is the styled prompt shown for an input mode.
type prompt struct {
	text  string
	style lipgloss.Style
}

var prompts = map[inputMode]prompt{
	modeEval: {"➜ ", lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)},
	modeCtrl: {" :", lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)},
}

func (p prompt) String() string { return p.style.Render(p.text) }

// echo renders a submitted line the way it appeared at the prompt.
func (p prompt) echo(line string) string {
	return p.String() + inputStyle.Render(line)
}
