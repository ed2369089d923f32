package cli

import (
	"testing"
)

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "none",
			args: []string{"run", "main.flux"},
			want: logConfig{Level: "warn", Format: "text", Pretty: true},
		},
		{
			name: "assigned",
			args: []string{"--log-level=debug", "--log-format=json"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "separate_value",
			args: []string{"run", "--log-level", "trace", "main.flux"},
			want: logConfig{Level: "trace", Format: "text", Pretty: true},
		},
		{
			name: "value_looks_like_flag",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Level: "", Format: "text", Caller: true, Pretty: true},
		},
		{
			name: "negated",
			args: []string{"--no-log-pretty", "--log-caller"},
			want: logConfig{Level: "warn", Format: "text", Caller: true},
		},
		{
			name: "bool_assigned",
			args: []string{"--log-pretty=false", "--log-caller=true"},
			want: logConfig{Level: "warn", Format: "text", Caller: true},
		},
		{
			name: "bool_invalid",
			args: []string{"--log-pretty=maybe"},
			want: logConfig{Level: "warn", Format: "text", Pretty: true},
		},
		{
			name: "unknown",
			args: []string{"--log-color", "--no-log-level"},
			want: logConfig{Level: "warn", Format: "text", Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := logConfig{Level: "warn", Format: "text", Pretty: true}
			t.Cleanup(func() { defaultLogConfig().start(t.Context()) })

			cfg.scan(tt.args)

			if cfg != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, cfg, tt.want)
			}
		})
	}
}

func defaultLogConfig() *logConfig {
	return &logConfig{
		Level:      "warn",
		Format:     "text",
		TimeLayout: "RFC3339",
		Pretty:     true,
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (&logConfig{}).vars()

	for _, key := range []string{"logLevelEnum", "logFormatEnum"} {
		if vars[key] == "" {
			t.Errorf("vars()[%q] is empty", key)
		}
	}
}
