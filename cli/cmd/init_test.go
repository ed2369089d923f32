package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initFlags mirrors the shape of the global flags init collects.
type initFlags struct {
	LogLevel  string   `default:"warn"                name:"log-level"`
	LogPretty bool     `default:"true"                name:"log-pretty"`
	Path      []string `name:"path"`
	Secret    string   `default:"hidden"              hidden:""`
	PprofMode string   `default:"cpu"                 name:"pprof-mode"`
	Width     int      `default:"80"                  name:"width"`
}

func newInitContext(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var flags initFlags

	parser, err := kong.New(&flags, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInit_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string)
		wantErr error
	}{
		{
			name: "create_new_config",
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			ctx := WithContext(t.Context(), newInitContext(t, confPath))

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				if !errors.Is(err, ErrWriteConfig) {
					t.Errorf("Init.Run() error = %v, want %v", err, ErrWriteConfig)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() unexpected error: %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, data)
			}

			if got["log_level"] != "warn" {
				t.Errorf("log_level = %v, want %q", got["log_level"], "warn")
			}
		})
	}
}

func TestInit_BuildConfig(t *testing.T) {
	t.Parallel()

	ktx := newInitContext(t, "unused",
		"--log-level=debug", "--path=a", "--path=b",
	)
	ctx := WithContext(t.Context(), ktx)

	config := (&Init{}).buildConfig(ctx)

	got := map[string]any{}
	for _, item := range config {
		got[item.Key.(string)] = item.Value
	}

	if got["log_level"] != "debug" {
		t.Errorf("log_level = %v, want %q", got["log_level"], "debug")
	}

	if got["log_pretty"] != true {
		t.Errorf("log_pretty = %v, want true", got["log_pretty"])
	}

	path, ok := got["path"].([]string)
	if !ok || len(path) != 2 || path[0] != "a" || path[1] != "b" {
		t.Errorf("path = %#v, want [a b]", got["path"])
	}

	if got["width"] != 80 {
		t.Errorf("width = %v, want 80", got["width"])
	}

	for _, key := range []string{"help", "secret", "pprof_mode"} {
		if _, ok := got[key]; ok {
			t.Errorf("config unexpectedly contains %q", key)
		}
	}
}

func TestInit_EmptyPathOmitted(t *testing.T) {
	t.Parallel()

	ctx := WithContext(t.Context(), newInitContext(t, "unused"))

	for _, item := range (&Init{}).buildConfig(ctx) {
		if item.Key == "path" {
			t.Errorf("config contains empty path: %v", item.Value)
		}
	}
}

func TestInit_InvalidPath(t *testing.T) {
	t.Parallel()

	confPath := filepath.Join(t.TempDir(), "missing", "dir", "config.yaml")
	ctx := WithContext(t.Context(), newInitContext(t, confPath))

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want %v", err, ErrWriteConfig)
	}
}
