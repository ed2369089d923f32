package cmd

import "log/slog"

// Command failures. Derived errors created with Wrap or With still match
// their sentinel through [errors.Is].
var (
	// ErrProgramFailed is returned after a syntax or runtime error of the
	// Flux program itself has been written to stderr. Callers should exit
	// with a failure status without reporting it again.
	ErrProgramFailed = NewError("program failed")

	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
	ErrWriteSource = NewError("write formatted source")
)

// Error is a command failure carrying a cause and structured log attributes.
type Error struct {
	msg    string
	cause  error
	attrs  []slog.Attr
	origin *Error // sentinel this error was derived from; nil for sentinels
}

// NewError returns a sentinel command error.
func NewError(msg string) *Error { return &Error{msg: msg} }

func (e *Error) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	}

	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches the sentinel e was derived from, or e itself.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && (t == e || t == e.root())
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)
	attrs = append(attrs, slog.String("error", e.msg))

	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	return e.derive(err, e.attrs)
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return e.derive(e.cause, append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...))
}

func (e *Error) derive(cause error, attrs []slog.Attr) *Error {
	return &Error{msg: e.msg, cause: cause, attrs: attrs, origin: e.root()}
}

func (e *Error) root() *Error {
	if e.origin != nil {
		return e.origin
	}

	return e
}
