package lang

import (
	"io"
	"os"

	"github.com/ardnew/flux/log"
)

// DefaultMaxCallDepth is the default limit on nested function calls.
// Users may modify this before constructing an [Interpreter].
var DefaultMaxCallDepth = 4096

// options holds configuration shared by the lexer, parser, and interpreter.
type options struct {
	logger       log.Logger
	output       io.Writer
	trace        bool
	maxCallDepth int
}

// Option configures lexing, parsing, or evaluation behavior.
type Option func(*options)

func (o *options) apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
}

func defaultOptions() options {
	return options{
		output:       os.Stdout,
		maxCallDepth: DefaultMaxCallDepth,
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOutput sets the writer that receives the output of print statements.
// A nil writer discards output.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}

		o.output = w
	}
}

// WithTrace enables one trace record per executed statement and evaluated
// expression, written to the logger at [log.LevelTrace].
func WithTrace(enable bool) Option {
	return func(o *options) { o.trace = enable }
}

// WithMaxCallDepth limits the depth of nested calls. Non-positive values
// select [DefaultMaxCallDepth].
func WithMaxCallDepth(depth int) Option {
	return func(o *options) {
		if depth <= 0 {
			depth = DefaultMaxCallDepth
		}

		o.maxCallDepth = depth
	}
}
