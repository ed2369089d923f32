package log

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// FormatTime renders a record timestamp. An empty result omits the time.
type FormatTime func(time.Time) string

const (
	// DefaultTimeLayout is used when no valid time layout is provided.
	DefaultTimeLayout = time.RFC3339
	// DefaultCaller reports whether records include their source location.
	DefaultCaller = false
	// DefaultPretty reports whether records are colorized.
	DefaultPretty = true
)

// config holds the settings a [Logger] was built from. The mutex is shared
// by copies of a config and replaced by [config.clone].
type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
	tag        bool
}

// Option modifies a config.
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

func makeConfig(w io.Writer, opts ...Option) config {
	c := apply(config{mutex: &sync.RWMutex{}}, WithDefaults(w))

	return apply(c, opts...)
}

func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return apply(c, opts...)
}

// replaceAttr renders the time with formatTime and the level by name, so
// that trace records read "TRACE" instead of "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok {
			break
		}

		s := c.formatTime(t)
		if s == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(s)

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

// handler builds the [slog.Handler] for c.
func (c config) handler() slog.Handler {
	opt := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch c.format {
	case FormatJSON:
		if c.pretty {
			return newPrettyJSONHandler(c.output, opt, c.formatTime)
		}

		return slog.NewJSONHandler(c.output, opt)

	case FormatText:
		if c.tag {
			return newTagHandler(c.output, opt)
		}

		if c.pretty {
			return newPrettyTextHandler(c.output, opt, c.formatTime)
		}

		return slog.NewTextHandler(c.output, opt)
	}

	return slog.DiscardHandler
}

// mutate returns an Option that applies fn under the config's write lock,
// allocating the lock for a zero config.
func mutate(fn func(*config)) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		}

		c.mutex.Lock()
		defer c.mutex.Unlock()

		fn(&c)

		return c
	}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}

// WithDefaults resets every setting to its default and writes to w, or
// discards output if w is nil.
func WithDefaults(w io.Writer) Option {
	w = orDiscard(w)

	return mutate(func(c *config) {
		c.output = w
		c.formatTime = makeFormatTimeFunc(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty
		c.tag = false
	})
}

// WithOutput sets the destination of log records. A nil w discards them.
func WithOutput(w io.Writer) Option {
	w = orDiscard(w)

	return mutate(func(c *config) { c.output = w })
}

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return mutate(func(c *config) { c.level = level })
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return mutate(func(c *config) { c.format = format })
}

// WithTimeLayout sets the timestamp layout: a name such as "RFC3339",
// "kitchen" or "ms" (case and punctuation are ignored), or a layout for
// [time.Time.Format]. A blank layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return mutate(func(c *config) { c.formatTime = format })
}

// WithCaller sets whether records include their source location.
func WithCaller(enable bool) Option {
	return mutate(func(c *config) { c.caller = enable })
}

// WithPretty sets whether records are colorized. Pretty JSON is indented
// over several lines.
func WithPretty(enable bool) Option {
	return mutate(func(c *config) { c.pretty = enable })
}

// WithLevelTag sets whether text records lead with the level in brackets
// followed by the bare message, as in "[TRACE] assign line=1". It takes
// precedence over [WithPretty] for the text format.
func WithLevelTag(enable bool) Option {
	return mutate(func(c *config) { c.tag = enable })
}

// namedLayouts maps normalized layout names to [time] layouts. Several names
// share a layout.
//
//nolint:gochecknoglobals
var namedLayouts = func() map[string]string {
	m := map[string]string{}

	for layout, keys := range map[string][]string{
		time.RFC3339:     {"rfc3339"},
		time.RFC3339Nano: {"rfc3339nano"},
		time.ANSIC:       {"ansic"},
		time.UnixDate:    {"unixdate"},
		time.RubyDate:    {"rubydate"},
		time.RFC822:      {"rfc822"},
		time.RFC822Z:     {"rfc822z"},
		time.RFC850:      {"rfc850"},
		time.Kitchen:     {"kitchen"},
		time.DateTime:    {"datetime"},
		time.TimeOnly:    {"timeonly"},
		time.Stamp:       {"stamp"},
		time.StampMilli:  {"stampmilli", "milli", "ms"},
		time.StampMicro:  {"stampmicro", "micro", "us"},
		time.StampNano:   {"stampnano", "nano", "ns"},
		"":               {"none"},
	} {
		for _, k := range keys {
			m[k] = layout
		}
	}

	return m
}()

func normalizeLayoutName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			return r
		}

		return -1
	}, strings.ToLower(s))
}

func makeFormatTimeFunc(layout string) FormatTime {
	if std, ok := namedLayouts[normalizeLayoutName(layout)]; ok {
		layout = std
	}

	if strings.TrimSpace(layout) == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
