package lang

import (
	"errors"
	"slices"
	"testing"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}

	return out
}

func TestLexer_Punctuation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{
			name:  "single characters",
			input: "(){}[],.:;+-*/%",
			want: []TokenKind{
				TokenLeftParen, TokenRightParen, TokenLeftBrace, TokenRightBrace,
				TokenLeftBracket, TokenRightBracket, TokenComma, TokenDot,
				TokenColon, TokenSemicolon, TokenPlus, TokenMinus, TokenStar,
				TokenSlash, TokenPercent, TokenEOF,
			},
		},
		{
			name:  "two characters",
			input: "== != <= >= = < >",
			want: []TokenKind{
				TokenEqualEqual, TokenBangEqual, TokenLessEqual, TokenGreaterEqual,
				TokenEqual, TokenLess, TokenGreater, TokenEOF,
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  []TokenKind{TokenEOF},
		},
		{
			name:  "comment only",
			input: "# nothing here",
			want:  []TokenKind{TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(Scan(tt.input))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Scan(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLexer_Keywords(t *testing.T) {
	for _, word := range Keywords() {
		t.Run(word, func(t *testing.T) {
			tokens := Scan(word)
			if len(tokens) != 2 {
				t.Fatalf("expected 2 tokens, got %d", len(tokens))
			}

			if tokens[0].Kind == TokenIdentifier {
				t.Errorf("keyword %q scanned as identifier", word)
			}

			if tokens[0].Kind != LookupKeyword(word) {
				t.Errorf("kind = %v, want %v", tokens[0].Kind, LookupKeyword(word))
			}
		})
	}

	tokens := Scan("iffy _x x1 Print")
	for _, tok := range tokens[:4] {
		if tok.Kind != TokenIdentifier {
			t.Errorf("%q: kind = %v, want IDENTIFIER", tok.Lexeme, tok.Kind)
		}
	}
}

func TestLexer_Literals(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    TokenKind
		literal any
	}{
		{name: "integer", input: "42", kind: TokenNumber, literal: 42.0},
		{name: "decimal", input: "3.25", kind: TokenNumber, literal: 3.25},
		{name: "string", input: `"hello world"`, kind: TokenString, literal: "hello world"},
		{name: "empty string", input: `""`, kind: TokenString, literal: ""},
		{name: "raw backslash", input: `"a\nb"`, kind: TokenString, literal: `a\nb`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Scan(tt.input)
			if tokens[0].Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", tokens[0].Kind, tt.kind)
			}

			if tokens[0].Literal != tt.literal {
				t.Errorf("literal = %#v, want %#v", tokens[0].Literal, tt.literal)
			}

			if tokens[0].Lexeme != tt.input {
				t.Errorf("lexeme = %q, want %q", tokens[0].Lexeme, tt.input)
			}
		})
	}
}

func TestLexer_TrailingDot(t *testing.T) {
	// "1." is a number followed by a dot, not a decimal.
	got := kinds(Scan("1.len"))
	want := []TokenKind{TokenNumber, TokenDot, TokenIdentifier, TokenEOF}

	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLexer_Lines(t *testing.T) {
	tokens := Scan("a\nb # comment\n\"multi\nline\" c")

	wantLines := []int{1, 2, 3, 4, 4}
	for i, want := range wantLines {
		if tokens[i].Line != want {
			t.Errorf("token %d (%v): line = %d, want %d", i, tokens[i], tokens[i].Line, want)
		}
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		msg    string
		lexeme string
		line   int
		kinds  []TokenKind
	}{
		{
			name:   "unexpected character",
			input:  "a @ b",
			msg:    "Unexpected character",
			lexeme: "@",
			line:   1,
			kinds:  []TokenKind{TokenIdentifier, TokenIdentifier, TokenEOF},
		},
		{
			name:   "multibyte character",
			input:  "x = π",
			msg:    "Unexpected character",
			lexeme: "π",
			line:   1,
			kinds:  []TokenKind{TokenIdentifier, TokenEqual, TokenEOF},
		},
		{
			name:   "lone bang",
			input:  "!x",
			msg:    "Unexpected '!'",
			lexeme: "!",
			line:   1,
			kinds:  []TokenKind{TokenIdentifier, TokenEOF},
		},
		{
			name:   "unterminated string",
			input:  "print 1\n\"abc\ndef",
			msg:    "Unterminated string",
			lexeme: "\"abc\ndef",
			line:   2,
			kinds:  []TokenKind{TokenPrint, TokenNumber, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexer(tt.input)
			tokens := lex.Scan(t.Context())

			if got := kinds(tokens); !slices.Equal(got, tt.kinds) {
				t.Errorf("kinds = %v, want %v", got, tt.kinds)
			}

			errs := lex.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d", len(errs))
			}

			e := errs[0]
			if e.Message != tt.msg || e.Lexeme != tt.lexeme || e.Line != tt.line {
				t.Errorf("error = {%q %q %d}, want {%q %q %d}",
					e.Message, e.Lexeme, e.Line, tt.msg, tt.lexeme, tt.line)
			}

			if !errors.Is(e, ErrLexical) {
				t.Error("expected errors.Is(err, ErrLexical)")
			}
		})
	}
}

func TestTokenKind_String(t *testing.T) {
	if got := TokenLessEqual.String(); got != "LESS_EQUAL" {
		t.Errorf("String() = %q", got)
	}

	if got := TokenKind(999).String(); got != "TokenKind(999)" {
		t.Errorf("String() = %q", got)
	}

	tok := Token{Kind: TokenIdentifier, Lexeme: "x", Line: 1}
	if got := tok.String(); got != `IDENTIFIER "x"` {
		t.Errorf("Token.String() = %q", got)
	}
}
