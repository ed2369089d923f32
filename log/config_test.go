package log

import (
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	var names []string
	for s := range Levels() {
		names = append(names, s)
	}

	if got := strings.Join(names, ","); got != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %q", got)
	}

	if got := Level(3).String(); got != "Level(3)" {
		t.Errorf("Level(3).String() = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat("Text"); got != FormatText {
		t.Errorf("ParseFormat(Text) = %v", got)
	}

	if got := ParseFormat("json"); got != FormatJSON {
		t.Errorf("ParseFormat(json) = %v", got)
	}

	if got := ParseFormat("xml"); got != DefaultFormat {
		t.Errorf("ParseFormat(xml) = %v, want default", got)
	}

	if FormatText.String() != "text" || FormatJSON.String() != "json" {
		t.Errorf("unexpected format names %q %q", FormatText, FormatJSON)
	}
}

func TestConfig_Options(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false),
	)

	if c.mutex == nil {
		t.Fatal("expected options to allocate a mutex")
	}

	if c.level != LevelWarn || c.format != FormatText || !c.caller || c.pretty {
		t.Errorf("options not applied: %+v", c)
	}
}

func TestConfig_formatTime(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 6, 7000, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:06Z"},
		{"rfc-3339", "2024-03-09T14:05:06Z"},
		{"kitchen", "2:05PM"},
		{"DateTime", "2024-03-09 14:05:06"},
		{"15:04", "14:05"},
		{"none", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("format %q = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}
