package log

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Level is the severity of a log message. It extends [slog.Level] with
// [LevelTrace], used for the interpreter's execution trace.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the level of a logger made without [WithLevel].
const DefaultLevel = LevelInfo

// Format selects how records are encoded.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format of a logger made without [WithFormat].
const DefaultFormat = FormatJSON

// named pairs a value with the name used for it on the command line.
type named[T comparable] struct {
	value T
	name  string
}

//nolint:gochecknoglobals
var (
	levelNames = []named[Level]{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
	}

	formatNames = []named[Format]{
		{FormatJSON, "json"},
		{FormatText, "text"},
	}
)

func nameOf[T comparable](table []named[T], v T) (string, bool) {
	for _, n := range table {
		if n.value == v {
			return n.name, true
		}
	}

	return "", false
}

func valueOf[T comparable](table []named[T], s string) (T, bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, n := range table {
		if n.name == s {
			return n.value, true
		}
	}

	var zero T

	return zero, false
}

func names[T comparable](table []named[T]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range table {
			if !yield(n.name) {
				return
			}
		}
	}
}

// String returns the name of a defined level, or "Level(n)" otherwise.
func (l Level) String() string {
	if s, ok := nameOf(levelNames, l); ok {
		return s
	}

	return "Level(" + strconv.Itoa(int(l)) + ")"
}

// Levels returns the names of the defined levels, most verbose first.
func Levels() iter.Seq[string] { return names(levelNames) }

// ParseLevel returns the level named by s. Any form accepted by
// [slog.Level.UnmarshalText], such as "warn+2", is also recognized.
// Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	if l, ok := valueOf(levelNames, s); ok {
		return l
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

func (f Format) String() string {
	if s, ok := nameOf(formatNames, f); ok {
		return s
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Formats returns the names of the defined formats.
func Formats() iter.Seq[string] { return names(formatNames) }

// ParseFormat returns the format named by s, or [DefaultFormat].
func ParseFormat(s string) Format {
	if f, ok := valueOf(formatNames, s); ok {
		return f
	}

	return DefaultFormat
}
