package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_Defaults(t *testing.T) {
	logger := Make(&bytes.Buffer{})

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelWarn), WithPretty(false))

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written at warn level: %s", out)
	}

	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestLogger_Trace_ShowsTraceLevel(t *testing.T) {
	tests := []struct {
		name   string
		pretty bool
		format Format
	}{
		{"json", false, FormatJSON},
		{"text", false, FormatText},
		{"pretty text", true, FormatText},
		{"pretty json", true, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf,
				WithLevel(LevelTrace),
				WithFormat(tt.format),
				WithPretty(tt.pretty),
				WithTimeLayout("none"),
			)

			logger.Trace("step", slog.Int("line", 3))

			out := buf.String()
			if !strings.Contains(out, "TRACE") {
				t.Errorf("expected TRACE level, got: %s", out)
			}

			if strings.Contains(out, "time") {
				t.Errorf("expected no time field, got: %s", out)
			}

			if !strings.Contains(out, "line") {
				t.Errorf("expected attribute, got: %s", out)
			}
		})
	}
}

func TestLogger_LevelTag(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		pretty bool
		want   string
	}{
		{"text", FormatText, false, "[TRACE] assign line=1 name=x value=\"a b\"\n"},
		{"ignores pretty", FormatText, true, "[TRACE] assign line=1 name=x value=\"a b\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf,
				WithLevel(LevelTrace),
				WithFormat(tt.format),
				WithPretty(tt.pretty),
				WithTimeLayout("none"),
				WithLevelTag(true),
			)

			logger.Trace("assign",
				slog.Int("line", 1),
				slog.String("name", "x"),
				slog.String("value", "a b"),
			)

			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_LevelTag_WithAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithLevel(LevelDebug),
		WithFormat(FormatText),
		WithTimeLayout("none"),
		WithLevelTag(true),
	).With(slog.String("cmd", "trace"))

	logger.Debug("start")
	logger.Info("done", slog.Bool("ok", true))

	want := "[DEBUG] start cmd=trace\n[INFO] done cmd=trace ok=true\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false)).With(slog.String("key", "value"))
	logger.Info("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry: %v", err)
	}

	if entry["key"] != "value" {
		t.Errorf("expected key=value in log entry, got %v", entry)
	}
}

func TestLogger_With_PrettyKeepsAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText)).With(slog.String("file", "a.flux"))
	logger.Info("loaded")

	if !strings.Contains(buf.String(), "a.flux") {
		t.Errorf("expected attribute from With, got: %s", buf.String())
	}
}

func TestLogger_Wrap_OverridesConfig(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelError))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	wrapped.Debug("wrapped")
	base.Debug("base")

	if first.Len() != 0 {
		t.Errorf("base logger wrote below its level: %s", first.String())
	}

	if !strings.Contains(second.String(), "wrapped") {
		t.Errorf("wrapped logger missing output: %s", second.String())
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Info("test")
	l.Error("test")

	if l.EnabledContext(t.Context(), LevelError) {
		t.Error("zero logger reports enabled")
	}

	if l2 := l.With(slog.String("key", "value")); l2.Logger != nil {
		t.Error("expected nil logger from zero value With")
	}
}

func TestLogger_ConcurrentCalls(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Go(func() { logger.Info("concurrent", slog.Int("id", i)) })
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 16 {
		t.Errorf("expected 16 lines, got %d", len(lines))
	}
}

func TestPackage_FunctionsUseDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelTrace), WithPretty(false))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, tt.level) || !strings.Contains(out, `"key":"value"`) {
				t.Errorf("unexpected output: %s", out)
			}
		})
	}
}

func TestLogger_Caller_ReportsCallSite(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	logger := Make(&buf, WithCaller(true), WithPretty(false))
	Config(WithOutput(&buf), WithCaller(true), WithPretty(false))

	calls := map[string]func(){
		"method":         func() { logger.Info("method") },
		"method_context": func() { logger.WarnContext(t.Context(), "method") },
		"package":        func() { Error("package") },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			buf.Reset()
			call()

			var entry struct {
				Source struct {
					File string `json:"file"`
				} `json:"source"`
			}

			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to unmarshal log entry: %v", err)
			}

			if !strings.HasSuffix(entry.Source.File, "log_test.go") {
				t.Errorf("source file = %q, want log_test.go", entry.Source.File)
			}
		})
	}
}
