package lang

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()

	prog, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}

	return prog
}

func TestParseString_Statements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string // top-level labels
	}{
		{name: "empty", input: "", want: nil},
		{name: "print", input: `print 1, "a"`, want: []string{"Print"}},
		{name: "assignment", input: "x = 1", want: []string{"Assignment x"}},
		{name: "field assignment", input: "a.b = 1", want: []string{"Expression"}},
		{name: "newline separated", input: "x = 1\ny = 2", want: []string{"Assignment x", "Assignment y"}},
		{name: "same line", input: "x = 1 y = 2", want: []string{"Assignment x", "Assignment y"}},
		{name: "semicolons", input: ";x = 1;; print x;", want: []string{"Assignment x", "Print"}},
		{name: "if else", input: "if x { print 1 } else { print 2 }", want: []string{"If"}},
		{name: "while", input: "while x { x = x - 1 }", want: []string{"While"}},
		{name: "for", input: "for i = 1 to 3 { print i }", want: []string{"Block"}},
		{name: "function", input: "fun f(a, b) { return a + b }", want: []string{"Function f(a, b)"}},
		{name: "lambda statement", input: "fun(a) { return a }", want: []string{"Expression"}},
		{name: "class", input: "class P { x y fun init() { this.x = 0 } }", want: []string{"Class P"}},
		{name: "exit", input: "exit", want: []string{"Exit"}},
		{name: "call", input: "f(1)(2)", want: []string{"Expression"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.input)

			if len(prog.Statements) != len(tt.want) {
				t.Fatalf("got %d statements, want %d", len(prog.Statements), len(tt.want))
			}

			for i, s := range prog.Statements {
				if s.Label() != tt.want[i] {
					t.Errorf("statement %d: label = %q, want %q", i, s.Label(), tt.want[i])
				}
			}
		})
	}
}

func TestParseString_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string // formatted with full parenthesization of the value
	}{
		{"x = 1 + 2 * 3", "x = 1 + 2 * 3"},
		{"x = (1 + 2) * 3", "x = (1 + 2) * 3"},
		{"x = 1 - (2 - 3)", "x = 1 - (2 - 3)"},
		{"x = 7 % 4 * 2", "x = 7 % 4 * 2"},
		{"x = not a == b", "x = not a == b"},
		{"x = (not a) == b", "x = (not a) == b"},
		{"x = a or b and c", "x = a or b and c"},
		{"x = (a or b) and c", "x = (a or b) and c"},
		{"x = a.b(c)[0].d", "x = a.b(c)[0].d"},
		{"x = (a + b).len()", "x = (a + b).len()"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := mustParse(t, tt.input)

			var sb strings.Builder
			if err := prog.Format(t.Context(), &sb, 0); err != nil {
				t.Fatal(err)
			}

			if got := strings.TrimSpace(sb.String()); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseString_NotBindsLooserThanComparison(t *testing.T) {
	prog := mustParse(t, "x = not 1 == 2")

	value := prog.Statements[0].(*AssignmentStmt).Value

	logical, ok := value.(*LogicalExpr)
	if !ok || logical.Operator.Kind != TokenNot {
		t.Fatalf("value = %T, want not-expression", value)
	}

	if _, ok := logical.Right.(*BinaryExpr); !ok {
		t.Errorf("operand = %T, want *BinaryExpr", logical.Right)
	}
}

func TestParseString_ForDesugaring(t *testing.T) {
	prog := mustParse(t, "for i = 1 to 5 { print i }")

	block, ok := prog.Statements[0].(*BlockStmt)
	if !ok || len(block.Statements) != 2 {
		t.Fatalf("expected block of two statements, got %#v", prog.Statements[0])
	}

	assign, ok := block.Statements[0].(*AssignmentStmt)
	if !ok || assign.Name.Lexeme != "i" {
		t.Fatalf("first statement = %#v", block.Statements[0])
	}

	loop, ok := block.Statements[1].(*WhileStmt)
	if !ok {
		t.Fatalf("second statement = %T", block.Statements[1])
	}

	cond, ok := loop.Condition.(*BinaryExpr)
	if !ok || cond.Operator.Lexeme != "<=" {
		t.Errorf("condition = %#v", loop.Condition)
	}

	inc, ok := loop.Increment.(*AssignmentStmt)
	if !ok || inc.Name.Lexeme != "i" {
		t.Fatalf("increment = %#v", loop.Increment)
	}

	if bin, ok := inc.Value.(*BinaryExpr); !ok || bin.Operator.Lexeme != "+" {
		t.Errorf("increment value = %#v", inc.Value)
	}
}

func TestParseString_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		line   int
		atEnd  bool
		lexeme string
	}{
		{
			name:   "missing paren",
			input:  "print (1 + 2",
			want:   "Expected ')' after expression.",
			atEnd:  true,
			line:   1,
			lexeme: "",
		},
		{
			name:   "invalid target",
			input:  "1 = 2",
			want:   "Invalid assignment target.",
			line:   1,
			lexeme: "=",
		},
		{
			name:   "index target",
			input:  "a[0] = 2",
			want:   "Invalid assignment target.",
			line:   1,
			lexeme: "=",
		},
		{
			name:   "missing brace",
			input:  "if x\nprint 1",
			want:   "Expected '{' after if condition.",
			line:   2,
			lexeme: "print",
		},
		{
			name:   "break outside loop",
			input:  "break",
			want:   "Cannot use 'break' outside of a loop.",
			line:   1,
			lexeme: "break",
		},
		{
			name:   "continue in function in loop",
			input:  "while true { fun f() { continue } }",
			want:   "Cannot use 'continue' outside of a loop.",
			line:   1,
			lexeme: "continue",
		},
		{
			name:   "top-level return",
			input:  "return 1",
			want:   "Cannot return from top-level code.",
			line:   1,
			lexeme: "return",
		},
		{
			name:   "for without to",
			input:  "for i = 1 { }",
			want:   "Expected 'to' in for loop.",
			line:   1,
			lexeme: "{",
		},
		{
			name:   "map missing colon",
			input:  `m = {"a" 1}`,
			want:   "Expected ':' after key.",
			line:   1,
			lexeme: "1",
		},
		{
			name:   "unexpected token",
			input:  "x = )",
			want:   "Expected expression.",
			line:   1,
			lexeme: ")",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(t.Context(), tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("errors.Is(err, ErrSyntax) = false: %v", err)
			}

			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error type = %T", err)
			}

			if se.Message != tt.want || se.Line != tt.line ||
				se.AtEnd != tt.atEnd || se.Lexeme != tt.lexeme {
				t.Errorf("got {%q line=%d end=%v %q}, want {%q line=%d end=%v %q}",
					se.Message, se.Line, se.AtEnd, se.Lexeme,
					tt.want, tt.line, tt.atEnd, tt.lexeme)
			}
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	tests := []struct {
		err  *SyntaxError
		want string
	}{
		{
			err:  &SyntaxError{Line: 3, Message: "Expected ')' after arguments.", Lexeme: "print"},
			want: "[line 3] Syntax Error: Expected ')' after arguments. at 'print'.",
		},
		{
			err:  &SyntaxError{Line: 7, Message: "Expected '}' after if body.", AtEnd: true},
			want: "[line 7] Syntax Error: Expected '}' after if body. at end of file.",
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestSyntaxError_Snippet(t *testing.T) {
	_, err := ParseString(t.Context(), "x = 1\ny = (2 +\n")

	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v", err)
	}

	snippet := se.Snippet()
	if snippet == "" {
		t.Fatal("expected snippet")
	}

	if !strings.Contains(snippet, "|") || !strings.Contains(snippet, "^") {
		t.Errorf("snippet = %q", snippet)
	}

	if (&SyntaxError{Line: 1}).Snippet() != "" {
		t.Error("expected empty snippet without source")
	}
}

func TestParseString_Warnings(t *testing.T) {
	prog, err := ParseString(t.Context(), "x = 1 @\nprint x")
	if err != nil {
		t.Fatal(err)
	}

	if len(prog.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(prog.Warnings))
	}

	if len(prog.Statements) != 2 {
		t.Errorf("got %d statements, want 2", len(prog.Statements))
	}
}

func TestParseReader(t *testing.T) {
	prog, err := ParseReader(t.Context(), strings.NewReader("print 1"))
	if err != nil {
		t.Fatal(err)
	}

	if len(prog.Statements) != 1 {
		t.Errorf("got %d statements", len(prog.Statements))
	}
}

func TestParse_AppendsEOF(t *testing.T) {
	tokens := Scan("print 1")
	tokens = tokens[:len(tokens)-1]

	stmts, err := Parse(t.Context(), tokens)
	if err != nil {
		t.Fatal(err)
	}

	if len(stmts) != 1 {
		t.Errorf("got %d statements", len(stmts))
	}
}
