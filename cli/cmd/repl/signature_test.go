package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no function call", "greeting", 8, "", 0, false},
		{"simple function first arg", "add(", 4, "add", 0, true},
		{"simple function with first arg", "add(1", 5, "add", 0, true},
		{"simple function second arg", "add(1,", 6, "add", 1, true},
		{"simple function second arg with value", "add(1, 2", 8, "add", 1, true},
		{"method call", "p.move(", 7, "p.move", 0, true},
		{"method call second arg", `s.substring(0, `, 15, "s.substring", 1, true},
		{"after print keyword", "print add(1, ", 13, "add", 1, true},
		{"nested parens", "add(mul(2, 3),", 14, "add", 1, true},
		{"cursor inside nested call", "add(mul(2, 3), 4)", 8, "mul", 0, true},
		{"closed call", "add(1, 2)", 9, "", 0, false},
		{"grouping paren", "print (1 + ", 11, "", 0, false},
		{"comma in string", `add("a,b", `, 11, "add", 1, true},
		{"paren in string", `add("(", `, 9, "add", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("detectFunctionCall().name = %q, want %q", got.name, tt.wantName)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("detectFunctionCall().argIndex = %d, want %d", got.argIndex, tt.wantIndex)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall().inCall = %v, want %v", got.inCall, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	globals := newGlobals(t)

	tests := []struct {
		name          string
		funcName      string
		wantSignature string
		wantParams    []string
	}{
		{"user function", "add", "add(a, b)", []string{"a", "b"}},
		{"bound method", "p.move", "p.move(dx)", []string{"dx"}},
		{"class", "Point", "Point()", nil},
		{"builtin", "range", "range(start, end)", []string{"start", "end"}},
		{"unary builtin", "sqrt", "sqrt(x)", []string{"x"}},
		{"string method", "s.substring", "s.substring(start, end)", []string{"start", "end"}},
		{"nullary string method", "s.upper", "s.upper()", nil},
		{"array method", "a.push", "a.push(v)", []string{"v"}},
		{"not callable", "s", "", nil},
		{"undefined", "nope", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, params := getSignature(globals, tt.funcName)

			if sig != tt.wantSignature {
				t.Errorf("getSignature(%q) signature = %q, want %q", tt.funcName, sig, tt.wantSignature)
			}

			if len(params) != 0 || len(tt.wantParams) != 0 {
				if !slices.Equal(params, tt.wantParams) {
					t.Errorf("getSignature(%q) params = %v, want %v", tt.funcName, params, tt.wantParams)
				}
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	if got := renderSignatureHint("", nil, 0); got != "" {
		t.Errorf("empty signature rendered %q", got)
	}

	got := renderSignatureHint("add(a, b)", []string{"a", "b"}, 1)
	for _, want := range []string{"add", "a", "b", "(", ")"} {
		if !strings.Contains(got, want) {
			t.Errorf("hint %q missing %q", got, want)
		}
	}
}
