package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by this package matches one of these with
// [errors.Is].
var (
	ErrSyntax            = NewError("syntax error")
	ErrLexical           = NewError("lexical error")
	ErrRuntime           = NewError("runtime error")
	ErrReadInput         = NewError("failed to read input")
	ErrUndefinedVariable = NewError("undefined variable")
	ErrUndefinedProperty = NewError("undefined property")
	ErrUndefinedMethod   = NewError("undefined method")
	ErrArity             = NewError("wrong number of arguments")
	ErrOperand           = NewError("invalid operand")
	ErrIndexOutOfBounds  = NewError("index out of bounds")
	ErrNotIndexable      = NewError("value is not indexable")
	ErrNotInstance       = NewError("value is not an instance")
	ErrNotCallable       = NewError("value is not callable")
	ErrNotConvertible    = NewError("value is not convertible")
	ErrEmptyArray        = NewError("empty array")
	ErrControlFlow       = NewError("control flow outside its boundary")
	ErrStackOverflow     = NewError("maximum call depth exceeded")
	ErrCanceled          = NewError("execution canceled")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.base != nil && e.base == t)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		base:  e.root(),
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		base:  e.root(),
	}
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// SyntaxError reports malformed source text.
//
// Lexical errors are collected while scanning and do not stop it; a parse
// error stops the parser at the first structural violation.
type SyntaxError struct {
	Line    int
	Message string
	Lexeme  string // Offending text; empty when AtEnd is set
	AtEnd   bool   // Error occurred at end of input
	Lexical bool   // Reported by the lexer rather than the parser
	Source  string // The original source input, if known
}

// Error implements the error interface.
//
//	[line 3] Syntax Error: Expect ')' after arguments. at 'print'.
//	[line 7] Syntax Error: Expect '}' after block. at end of file.
func (e *SyntaxError) Error() string {
	var sb strings.Builder

	sb.WriteString("[line ")
	sb.WriteString(strconv.Itoa(e.Line))
	sb.WriteString("] Syntax Error: ")
	sb.WriteString(e.Message)

	if e.AtEnd {
		sb.WriteString(" at end of file.")
	} else {
		sb.WriteString(" at '")
		sb.WriteString(e.Lexeme)
		sb.WriteString("'.")
	}

	return sb.String()
}

// Unwrap returns the matching sentinel.
func (e *SyntaxError) Unwrap() error {
	if e.Lexical {
		return ErrLexical
	}

	return ErrSyntax
}

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Message),
		slog.Int("line", e.Line),
		slog.String("lexeme", e.Lexeme),
		slog.Bool("at_end", e.AtEnd),
	)
}

// Snippet returns the offending source line with its line number and a
// marker under the offending lexeme, or "" if the source is unknown.
//
//	  3 | print (1 + 2
//	            ^
func (e *SyntaxError) Snippet() string {
	if e.Source == "" {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line <= 0 || e.Line > len(lines) {
		return ""
	}

	line := lines[e.Line-1]

	var src strings.Builder

	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Line))
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	column := len(line)
	if !e.AtEnd && e.Lexeme != "" {
		if i := strings.Index(line, e.Lexeme); i >= 0 {
			column = i
		}
	}

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(e.Line))+5+column)
	src.WriteString(padding + "^\n")

	return src.String()
}

// RuntimeBanner prefixes every [RuntimeError] message.
const RuntimeBanner = "[Flux Runtime Error]"

// RuntimeError is a fatal error raised while executing a program.
type RuntimeError struct {
	Kind    *Error // Sentinel classifying the failure
	Message string
	Line    int // Source line of the originating token, or 0 if unknown
}

func newRuntimeError(kind *Error, line int, msg string) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: msg, Line: line}
}

// Error implements the error interface.
//
//	[Flux Runtime Error] [line 4] Undefined variable 'x'.
func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return RuntimeBanner + " [line " + strconv.Itoa(e.Line) + "] " + e.Message
	}

	return RuntimeBanner + " " + e.Message
}

// Unwrap returns the classifying sentinel and [ErrRuntime].
func (e *RuntimeError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrRuntime}
	}

	return []error{e.Kind, ErrRuntime}
}

// LogValue implements slog.LogValuer.
func (e *RuntimeError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("error", e.Message)}

	if e.Kind != nil {
		attrs = append(attrs, slog.String("kind", e.Kind.msg))
	}

	if e.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Line))
	}

	return slog.GroupValue(attrs...)
}
