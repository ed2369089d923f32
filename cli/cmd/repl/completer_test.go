package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/flux/lang"
)

const fixture = `
s = "hi"
a = [1, 2]
m = {"k": 1}
class Point {
    x, y
    fun init() { this.x = 0; this.y = 0 }
    fun move(dx) { this.x = this.x + dx return this }
}
p = Point()
fun add(a, b) { return a + b }
`

// newGlobals returns the globals of an interpreter that has run fixture.
func newGlobals(t *testing.T) *lang.Environment {
	t.Helper()

	prog, err := lang.ParseString(t.Context(), fixture)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	interp := lang.NewInterpreter()
	if err := interp.Run(t.Context(), prog); err != nil {
		t.Fatalf("run fixture: %v", err)
	}

	return interp.Globals()
}

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_brace", "if x { pr", 9, "pr", 7, 9},
		{"after_bracket", "a[fo", 4, "fo", 2, 4},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "my_var", 6, "my_var", 0, 6},
		{"cursor_past_end", "foo", 10, "foo", 0, 3},
		{"empty_after_dot", "p.", 2, "", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x = a.b.", 8, "a.b"},
		{"after_call", "f().", 4, ""},
		{"after_string", `"abc".`, 6, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	globals := newGlobals(t)

	t.Run("top_level", func(t *testing.T) {
		set := childCandidates(globals, "")

		for _, want := range []string{"while", "class", "add", "p", "Point", "len"} {
			if !slices.Contains(set.names, want) {
				t.Errorf("top-level candidates missing %q", want)
			}
		}

		for name, want := range map[string]bool{
			"add": true, "len": true, "Point": true, "s": false, "p": false,
		} {
			if got := set.callable[name]; got != want {
				t.Errorf("callable[%q] = %v, want %v", name, got, want)
			}
		}
	})

	tests := []struct {
		parent string
		want   []string
	}{
		{"s", lang.StringMethods},
		{"a", lang.ArrayMethods},
		{"p", []string{"init", "move", "x", "y"}},
		{"p.x", nil},
		{"m", nil},
		{"nope", nil},
		{"p.nope", nil},
	}

	for _, tt := range tests {
		t.Run(tt.parent, func(t *testing.T) {
			got := childCandidates(globals, tt.parent).names
			if !slices.Equal(got, tt.want) {
				t.Errorf("childCandidates(%q) = %v, want %v", tt.parent, got, tt.want)
			}
		})
	}

	set := childCandidates(globals, "p")
	if !set.callable["move"] || set.callable["x"] {
		t.Errorf("instance callable = %v", set.callable)
	}
}

func TestResolvePath(t *testing.T) {
	globals := newGlobals(t)

	v, ok := resolvePath(globals, "p.x")
	if !ok || lang.Stringify(v) != "0" {
		t.Errorf("resolvePath(p.x) = %v, %v", v, ok)
	}

	if _, ok := resolvePath(globals, "s.upper"); !ok {
		t.Error("resolvePath(s.upper) did not resolve")
	}

	if _, ok := resolvePath(globals, "add.x"); ok {
		t.Error("resolvePath resolved a member of a function")
	}
}
