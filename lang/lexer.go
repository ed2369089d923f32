package lang

import (
	"context"
	"log/slog"
	"strconv"
	"unicode/utf8"

	"github.com/ardnew/flux/log"
)

// Lexer converts source text into a sequence of tokens.
//
// Scanning is total: malformed input is recorded as a diagnostic, available
// from [Lexer.Errors], and scanning resumes with the next character.
type Lexer struct {
	source  string
	start   int
	current int
	line    int
	tokens  []Token
	errs    []*SyntaxError
	logger  log.Logger
}

// NewLexer returns a lexer for source. Only [WithLogger] is meaningful among
// opts; others are ignored.
func NewLexer(source string, opts ...Option) *Lexer {
	var o options

	o.apply(opts...)

	return &Lexer{source: source, line: 1, logger: o.logger}
}

// Scan tokenizes the entire source and returns the tokens, terminated by a
// single [TokenEOF].
func Scan(source string) []Token {
	return NewLexer(source).Scan(context.Background())
}

// Scan tokenizes the entire source. It may be called once per Lexer.
func (l *Lexer) Scan(ctx context.Context) []Token {
	for !l.atEnd() {
		l.start = l.current
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{Kind: TokenEOF, Line: l.line})

	l.logger.TraceContext(ctx, "scan complete",
		slog.Int("tokens", len(l.tokens)),
		slog.Int("errors", len(l.errs)),
	)

	return l.tokens
}

// Errors returns the diagnostics collected while scanning.
func (l *Lexer) Errors() []*SyntaxError { return l.errs }

func (l *Lexer) scanToken() {
	c := l.advance()

	switch c {
	case '(':
		l.add(TokenLeftParen, nil)
	case ')':
		l.add(TokenRightParen, nil)
	case '{':
		l.add(TokenLeftBrace, nil)
	case '}':
		l.add(TokenRightBrace, nil)
	case '[':
		l.add(TokenLeftBracket, nil)
	case ']':
		l.add(TokenRightBracket, nil)
	case ',':
		l.add(TokenComma, nil)
	case '.':
		l.add(TokenDot, nil)
	case ':':
		l.add(TokenColon, nil)
	case ';':
		l.add(TokenSemicolon, nil)
	case '+':
		l.add(TokenPlus, nil)
	case '-':
		l.add(TokenMinus, nil)
	case '*':
		l.add(TokenStar, nil)
	case '/':
		l.add(TokenSlash, nil)
	case '%':
		l.add(TokenPercent, nil)

	case '=':
		l.addPair('=', TokenEqualEqual, TokenEqual)
	case '>':
		l.addPair('=', TokenGreaterEqual, TokenGreater)
	case '<':
		l.addPair('=', TokenLessEqual, TokenLess)

	case '!':
		if l.match('=') {
			l.add(TokenBangEqual, nil)
		} else {
			l.report("Unexpected '!'", "!")
		}

	case ' ', '\r', '\t':

	case '\n':
		l.line++

	case '#':
		for l.peek() != '\n' && !l.atEnd() {
			l.current++
		}

	case '"':
		l.string()

	default:
		switch {
		case isDigit(c):
			l.number()

		case isAlpha(c):
			l.identifier()

		default:
			// Report the whole (possibly multi-byte) character.
			r, size := utf8.DecodeRuneInString(l.source[l.start:])
			l.current = l.start + max(size, 1)
			l.report("Unexpected character", string(r))
		}
	}
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.current++
	}

	l.add(LookupKeyword(l.source[l.start:l.current]), nil)
}

func (l *Lexer) number() {
	for isDigit(l.peek()) {
		l.current++
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.current++

		for isDigit(l.peek()) {
			l.current++
		}
	}

	// The lexeme is always a valid decimal literal.
	value, _ := strconv.ParseFloat(l.source[l.start:l.current], 64)
	l.add(TokenNumber, value)
}

// string scans a raw string literal. There are no escape sequences and the
// literal may span lines.
func (l *Lexer) string() {
	line := l.line

	for l.peek() != '"' && !l.atEnd() {
		if l.peek() == '\n' {
			l.line++
		}

		l.current++
	}

	if l.atEnd() {
		l.reportAt(line, "Unterminated string", l.source[l.start:l.current])

		return
	}

	l.current++ // closing quote

	l.tokens = append(l.tokens, Token{
		Kind:    TokenString,
		Lexeme:  l.source[l.start:l.current],
		Literal: l.source[l.start+1 : l.current-1],
		Line:    line,
	})
}

func (l *Lexer) add(kind TokenKind, literal any) {
	l.tokens = append(l.tokens, Token{
		Kind:    kind,
		Lexeme:  l.source[l.start:l.current],
		Literal: literal,
		Line:    l.line,
	})
}

func (l *Lexer) addPair(next byte, matched, single TokenKind) {
	if l.match(next) {
		l.add(matched, nil)
	} else {
		l.add(single, nil)
	}
}

func (l *Lexer) report(msg, text string) { l.reportAt(l.line, msg, text) }

func (l *Lexer) reportAt(line int, msg, text string) {
	l.errs = append(l.errs, &SyntaxError{
		Line:    line,
		Message: msg,
		Lexeme:  text,
		Lexical: true,
		Source:  l.source,
	})
}

func (l *Lexer) match(expected byte) bool {
	if l.atEnd() || l.source[l.current] != expected {
		return false
	}

	l.current++

	return true
}

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++

	return c
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}

	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}

	return l.source[l.current+1]
}

func (l *Lexer) atEnd() bool { return l.current >= len(l.source) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
