package pkg

import (
	"fmt"
	"strings"
)

// Error is a chain of errors ordered from the sentinel outward. Each call to
// Wrap or Wrapf returns a longer chain and leaves the receiver unchanged, so
// package-level sentinels can be wrapped freely.
type Error []error

// Sentinels shared by the command packages. Match them with [errors.Is].
var (
	// ErrReadInput wraps the I/O error from reading a source file or stdin.
	ErrReadInput = newSentinel("failed to read input")

	// ErrSourceNotFound wraps the source name that did not resolve against
	// the working directory or the search path.
	ErrSourceNotFound = newSentinel("source not found")

	ErrJSONMarshal = newSentinel("JSON marshal error")
	ErrYAMLMarshal = newSentinel("YAML marshal error")

	// ErrInvalidFormat wraps the rejected format name and the valid choices.
	ErrInvalidFormat = newSentinel("invalid format")

	// ErrInvalidFilter wraps a --where expression that does not compile or
	// does not yield a boolean.
	ErrInvalidFilter = newSentinel("invalid filter expression")
)

func newSentinel(msg string) Error { return Error{sentinelError(msg)} }

// sentinelError is a comparable error so that chains can be matched by
// element identity.
type sentinelError string

func (s sentinelError) Error() string { return string(s) }

// Join flattens each non-nil error into a single chain. It returns nil if
// every argument is nil.
func Join(errs ...error) Error {
	var chain Error

	for _, err := range errs {
		chain = append(chain, Flatten(err)...)
	}

	return chain
}

// Flatten lists every error reachable from err through Unwrap, innermost
// first, ending with err itself.
func Flatten(err error) Error {
	switch e := err.(type) {
	case nil:
		return nil
	case interface{ Unwrap() []error }:
		var chain Error
		for _, inner := range e.Unwrap() {
			chain = append(chain, Flatten(inner)...)
		}

		return append(chain, err)
	case interface{ Unwrap() error }:
		return append(Flatten(e.Unwrap()), err)
	}

	return Error{err}
}

func (e Error) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, ": ")
}

// Wrap returns a copy of the chain extended by errs.
func (e Error) Wrap(errs ...error) Error {
	chain := make(Error, 0, len(e)+len(errs))

	return append(append(chain, e...), errs...)
}

// Wrapf returns a copy of the chain extended by a formatted error.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Is reports whether target is a chain that begins e.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i, err := range t {
		if e[i] != err {
			return false
		}
	}

	return true
}

func (e Error) Unwrap() []error { return e }
