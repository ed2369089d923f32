package repl

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/flux/lang"
)

// builtinParams names the parameters of the free builtin functions.
var builtinParams = map[string][]string{
	"len":      {"v"},
	"type":     {"v"},
	"range":    {"start", "end"},
	"floor":    {"x"},
	"ceil":     {"x"},
	"round":    {"x"},
	"sqrt":     {"x"},
	"abs":      {"x"},
	"min":      {"a", "b"},
	"max":      {"a", "b"},
	"toNumber": {"v"},
	"toString": {"v"},
}

// methodParams names the parameters of the string and array methods.
var methodParams = map[string][]string{
	"substring":  {"start", "end"},
	"split":      {"delim"},
	"startsWith": {"prefix"},
	"endsWith":   {"suffix"},
	"push":       {"v"},
	"unshift":    {"v"},
	"contains":   {"v"},
	"indexOf":    {"v"},
}

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // callee path (e.g., "p.move")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. Parentheses and commas inside string
// literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Record the innermost unclosed paren scanning forward to the cursor.
	var (
		opens   []int
		commas  []int
		inQuote bool
	)

	for i, r := range input[:cursor] {
		if inQuote {
			inQuote = r != '"'

			continue
		}

		switch r {
		case '"':
			inQuote = true
		case '(':
			opens = append(opens, i)
			commas = append(commas, 0)
		case ')':
			if n := len(opens); n > 0 {
				opens, commas = opens[:n-1], commas[:n-1]
			}
		case ',':
			if n := len(commas); n > 0 {
				commas[n-1]++
			}
		}
	}

	if len(opens) == 0 {
		return functionCall{}
	}

	open := opens[len(opens)-1]

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" {
		return functionCall{}
	}

	return functionCall{
		name:     name,
		argIndex: commas[len(commas)-1],
		inCall:   true,
	}
}

// getSignature returns the signature of the callable bound at the given
// dotted path, and its parameter names. Returns "" if the path does not
// resolve to a callable.
func getSignature(
	globals *lang.Environment,
	name string,
) (signature string, params []string) {
	v, ok := resolvePath(globals, name)
	if !ok {
		return "", nil
	}

	switch fn := v.(type) {
	case *lang.Function:
		for _, p := range fn.Params {
			params = append(params, p.Lexeme)
		}

	case *lang.Builtin:
		table := methodParams
		if lang.IsBuiltin(fn) {
			table = builtinParams
		}

		params = table[fn.Name]
		if len(params) != fn.Arity {
			params = make([]string, fn.Arity)
			for i := range params {
				params[i] = "arg" + strconv.Itoa(i+1)
			}
		}

	case *lang.Class:
		// init is always invoked without arguments.

	default:
		return "", nil
	}

	return formatSignature(name, params), params
}

// formatSignature formats a function signature with parameter names.
func formatSignature(name string, params []string) string {
	return name + "(" + strings.Join(params, ", ") + ")"
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(signature[:openParen]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
