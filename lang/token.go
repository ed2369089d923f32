package lang

import (
	"log/slog"
	"strconv"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Punctuation.
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenLeftBracket
	TokenRightBracket
	TokenComma
	TokenDot
	TokenColon
	TokenSemicolon

	// Operators.
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenEqual
	TokenEqualEqual
	TokenBangEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	// Literals.
	TokenIdentifier
	TokenString
	TokenNumber

	// Keywords.
	TokenIf
	TokenElse
	TokenWhile
	TokenFor
	TokenTo
	TokenFun
	TokenReturn
	TokenAnd
	TokenOr
	TokenNot
	TokenBreak
	TokenContinue
	TokenClass
	TokenThis
	TokenNull
	TokenPrint
	TokenExit
	TokenTrue
	TokenFalse
)

var tokenKindName = [...]string{
	TokenEOF:          "EOF",
	TokenLeftParen:    "LEFT_PAREN",
	TokenRightParen:   "RIGHT_PAREN",
	TokenLeftBrace:    "LEFT_BRACE",
	TokenRightBrace:   "RIGHT_BRACE",
	TokenLeftBracket:  "LEFT_BRACKET",
	TokenRightBracket: "RIGHT_BRACKET",
	TokenComma:        "COMMA",
	TokenDot:          "DOT",
	TokenColon:        "COLON",
	TokenSemicolon:    "SEMICOLON",
	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenStar:         "STAR",
	TokenSlash:        "SLASH",
	TokenPercent:      "PERCENT",
	TokenEqual:        "EQUAL",
	TokenEqualEqual:   "EQUAL_EQUAL",
	TokenBangEqual:    "BANG_EQUAL",
	TokenGreater:      "GREATER",
	TokenGreaterEqual: "GREATER_EQUAL",
	TokenLess:         "LESS",
	TokenLessEqual:    "LESS_EQUAL",
	TokenIdentifier:   "IDENTIFIER",
	TokenString:       "STRING",
	TokenNumber:       "NUMBER",
	TokenIf:           "IF",
	TokenElse:         "ELSE",
	TokenWhile:        "WHILE",
	TokenFor:          "FOR",
	TokenTo:           "TO",
	TokenFun:          "FUN",
	TokenReturn:       "RETURN",
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenNot:          "NOT",
	TokenBreak:        "BREAK",
	TokenContinue:     "CONTINUE",
	TokenClass:        "CLASS",
	TokenThis:         "THIS",
	TokenNull:         "NULL",
	TokenPrint:        "PRINT",
	TokenExit:         "EXIT",
	TokenTrue:         "TRUE",
	TokenFalse:        "FALSE",
}

// String returns the upper-case name of the token kind.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindName) && tokenKindName[k] != "" {
		return tokenKindName[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// keywords maps reserved words to their token kinds.
var keywords = map[string]TokenKind{
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"for":      TokenFor,
	"to":       TokenTo,
	"fun":      TokenFun,
	"return":   TokenReturn,
	"and":      TokenAnd,
	"or":       TokenOr,
	"not":      TokenNot,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"class":    TokenClass,
	"this":     TokenThis,
	"null":     TokenNull,
	"print":    TokenPrint,
	"exit":     TokenExit,
	"true":     TokenTrue,
	"false":    TokenFalse,
}

// LookupKeyword returns the keyword kind for ident, or [TokenIdentifier] if
// ident is not reserved.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}

	return TokenIdentifier
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}

	return words
}

// Token is a single lexeme produced by the [Lexer].
//
// Literal holds the decoded value of number and string tokens (float64 and
// string respectively) and is nil otherwise.
type Token struct {
	Kind    TokenKind
	Lexeme  string
	Literal any
	Line    int
}

// synthetic returns a token of the given kind that did not come from source
// text but is attributed to line.
func synthetic(kind TokenKind, lexeme string, line int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line}
}

// String returns a compact description of the token for diagnostics.
func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "EOF"
	}

	return t.Kind.String() + " " + strconv.Quote(t.Lexeme)
}

// LogValue implements [slog.LogValuer].
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("lexeme", t.Lexeme),
		slog.Int("line", t.Line),
	)
}
