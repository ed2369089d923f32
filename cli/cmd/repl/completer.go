package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/flux/lang"
)

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the member-access dot, and the language's operator
// and punctuation characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		',', ':', ';', '"', '#':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dot-separated prefix path leading up to the current
// word, considering only the contiguous member-access chain. For input
// "x + p.name.up" with the word "up", the parent path is "p.name".
// Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := strings.TrimRight(input[:wordStart], ".")
	if prefix == "" {
		return ""
	}

	end := len(prefix)
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:end])
}

// afterDot reports whether the word starting at wordStart follows a
// member-access dot.
func afterDot(input string, wordStart int) bool {
	return wordStart > 0 && input[wordStart-1] == '.'
}

// member is implemented by the values that expose named members.
type member interface {
	Member(name string) (lang.Value, error)
}

// resolvePath resolves a dotted member-access chain against the globals.
// Member lookups have no side effects on the interpreter state.
func resolvePath(globals *lang.Environment, path string) (lang.Value, bool) {
	segments := strings.Split(path, ".")

	v, ok := globals.Lookup(segments[0])
	if !ok {
		return nil, false
	}

	for _, seg := range segments[1:] {
		m, ok := v.(member)
		if !ok {
			return nil, false
		}

		next, err := m.Member(seg)
		if err != nil {
			return nil, false
		}

		v = next
	}

	return v, true
}

// memberNames returns the sorted member names exposed by v.
func memberNames(v lang.Value) []string {
	switch v := v.(type) {
	case lang.String:
		return lang.StringMethods

	case *lang.Array:
		return lang.ArrayMethods

	case *lang.Instance:
		names := slices.Collect(maps.Keys(v.Fields))

		for name := range v.Class.Methods {
			if _, ok := v.Fields[name]; !ok {
				names = append(names, name)
			}
		}

		slices.Sort(names)

		return names
	}

	return nil
}

// isCallable reports whether v can appear in call position.
func isCallable(v lang.Value) bool {
	switch v.(type) {
	case *lang.Function, *lang.Builtin, *lang.Class:
		return true
	}

	return false
}

// candidateSet is the backing list for fuzzy matching plus the names that are
// rendered with a call suffix.
type candidateSet struct {
	names    []string
	callable map[string]bool
}

// childCandidates returns the names that are valid completions for the given
// parent path. For an empty parent, returns the keywords plus every global
// binding. For a non-empty parent, resolves the value and returns its member
// names.
func childCandidates(globals *lang.Environment, parent string) candidateSet {
	set := candidateSet{callable: map[string]bool{}}

	if parent == "" {
		set.names = append(set.names, lang.Keywords()...)

		for name, v := range globals.All() {
			set.names = append(set.names, name)
			set.callable[name] = isCallable(v)
		}

		return set
	}

	v, ok := resolvePath(globals, parent)
	if !ok {
		return set
	}

	set.names = memberNames(v)

	if m, ok := v.(member); ok {
		for _, name := range set.names {
			if mv, err := m.Member(name); err == nil {
				set.callable[name] = isCallable(mv)
			}
		}
	}

	return set
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidates, and the
// word boundaries. When the current word is empty at the top level, it returns
// nil matches. When the word is empty after a dot, it returns every member.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	set candidateSet,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	if m.mode == modeCtrl {
		if word == "" {
			return nil, set, wordStart, wordEnd
		}

		set.names = ctrlCommands()
	} else {
		parent := parentPath(input, wordStart)
		if parent == "" && afterDot(input, wordStart) {
			return nil, set, wordStart, wordEnd
		}

		set = childCandidates(m.session.interp.Globals(), parent)

		if word == "" {
			if parent == "" || len(set.names) == 0 {
				return nil, set, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(set.names))
			for i, c := range set.names {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, set, wordStart, wordEnd
		}
	}

	if len(set.names) == 0 {
		return nil, set, wordStart, wordEnd
	}

	return fuzzy.Find(word, set.names), set, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width.
func renderCandidateBar(
	matches fuzzy.Matches,
	callable map[string]bool,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected, callable[match.Str])

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callables are displayed with a "()" suffix that is not part of
// the completion.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if callable {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
