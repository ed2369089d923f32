package repl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/flux/lang"
)

func newConfig(in string, out, errOut *bytes.Buffer) Config {
	return Config{
		NewInterpreter: func(opts ...lang.Option) (*lang.Interpreter, error) {
			return lang.NewInterpreter(opts...), nil
		},
		In:    strings.NewReader(in),
		Out:   out,
		Err:   errOut,
		Plain: true,
	}
}

func TestRun_Plain(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOut string
		wantErr string
	}{
		{
			name:    "persistent globals and exit",
			input:   "x = 2\n\nprint x * 3\nprint nope\nexit\nprint 1\n",
			wantOut: "Flux REPL\nType 'exit' to quit.\n> > > 6\n> > Exiting REPL.\n",
			wantErr: "[Flux Runtime Error] [line 1] Undefined variable 'nope'.\n",
		},
		{
			name:    "end of input",
			input:   "print 1",
			wantOut: "Flux REPL\nType 'exit' to quit.\n> 1\n> \n",
		},
		{
			name:    "definitions span lines",
			input:   "fun sq(n) { return n * n }\nprint sq(4)\n",
			wantOut: "Flux REPL\nType 'exit' to quit.\n> > 16\n> \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer

			if err := Run(t.Context(), newConfig(tt.input, &out, &errOut)); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if out.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", out.String(), tt.wantOut)
			}

			if errOut.String() != tt.wantErr {
				t.Errorf("stderr = %q, want %q", errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestRun_PlainSyntaxError(t *testing.T) {
	var out, errOut bytes.Buffer

	if err := Run(t.Context(), newConfig("print (1 +\nprint 2\n", &out, &errOut)); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "> 2\n") {
		t.Errorf("loop did not continue after a syntax error: %q", out.String())
	}

	if !strings.Contains(errOut.String(), "1 | print (1 +") {
		t.Errorf("stderr lacks a source snippet: %q", errOut.String())
	}
}

func TestRun_History(t *testing.T) {
	var out, errOut bytes.Buffer

	dir := filepath.Join(t.TempDir(), "cache")

	cfg := newConfig("x = 1\nprint x\n", &out, &errOut)
	cfg.CacheDir = dir

	if err := Run(t.Context(), cfg); err != nil {
		t.Fatal(err)
	}

	buf, err := os.ReadFile(filepath.Join(dir, baseHistory))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(buf), "E:x = 1\nE:print x\n"; got != want {
		t.Errorf("history = %q, want %q", got, want)
	}
}

func TestRun_Errors(t *testing.T) {
	if err := Run(t.Context(), Config{Plain: true}); !errors.Is(err, ErrNoSession) {
		t.Errorf("Run() without constructor error = %v, want ErrNoSession", err)
	}

	boom := errors.New("boom")

	var out, errOut bytes.Buffer

	cfg := newConfig("", &out, &errOut)
	cfg.NewInterpreter = func(...lang.Option) (*lang.Interpreter, error) { return nil, boom }

	if err := Run(t.Context(), cfg); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestRun_Canceled(t *testing.T) {
	var out, errOut bytes.Buffer

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := Run(ctx, newConfig("print 1\n", &out, &errOut))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestDescribe(t *testing.T) {
	_, err := lang.ParseString(t.Context(), "print (1 +")
	if err == nil {
		t.Fatal("expected a syntax error")
	}

	got := describe(err)
	if !strings.Contains(got, "\n") || strings.HasSuffix(got, "\n") {
		t.Errorf("describe(syntax) = %q", got)
	}

	plain := errors.New("plain")
	if describe(plain) != "plain" {
		t.Errorf("describe(plain) = %q", describe(plain))
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		v    lang.Value
		want string
	}{
		{lang.Number(3), "number 3"},
		{lang.String("hi"), "string hi"},
		{lang.NewArray(lang.String("a")), `array ["a"]`},
		{lang.String(strings.Repeat("x", 50)), "string " + strings.Repeat("x", 30) + "..."},
	}

	for _, tt := range tests {
		if got := preview(tt.v); got != tt.want {
			t.Errorf("preview(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
