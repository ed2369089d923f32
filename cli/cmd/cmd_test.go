package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/pkg"
)

// withBuffers returns a context whose commands read in and write to the
// returned stdout and stderr buffers.
func withBuffers(t *testing.T, in string) (ctx context.Context, out, errOut *bytes.Buffer) {
	t.Helper()

	out, errOut = new(bytes.Buffer), new(bytes.Buffer)
	ctx = WithStdio(t.Context(), strings.NewReader(in), out, errOut)

	return ctx, out, errOut
}

// writeSource writes src to name under dir and returns its path.
func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	util := writeSource(t, lib, "util"+pkg.SourceExt, "x = 1")
	main := writeSource(t, dir, "main.flux", "print 1")

	ctx := WithSearchPath(t.Context(), []string{filepath.Join(dir, "missing"), lib})

	tests := []struct {
		name string
		want string
	}{
		{stdinSource, stdinSource},
		{main, main},
		{strings.TrimSuffix(main, pkg.SourceExt), main},
		{"util", util},
		{"util.flux", util},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSource(ctx, tt.name)
			if err != nil {
				t.Fatalf("resolveSource(%q) error = %v", tt.name, err)
			}

			if got != tt.want {
				t.Errorf("resolveSource(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	for _, name := range []string{"nope", lib, filepath.Join(dir, "util")} {
		_, err := resolveSource(ctx, name)
		if !errors.Is(err, pkg.ErrSourceNotFound) {
			t.Errorf("resolveSource(%q) error = %v, want ErrSourceNotFound", name, err)
		}
	}
}

func TestReadSource_Stdin(t *testing.T) {
	ctx, _, _ := withBuffers(t, "print 1\n")

	text, path, err := readSource(ctx, stdinSource)
	if err != nil {
		t.Fatal(err)
	}

	if text != "print 1\n" || path != stdinSource {
		t.Errorf("readSource(-) = %q, %q", text, path)
	}
}

func TestUniqueFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.flux", "")
	b := writeSource(t, dir, "b.flux", "")

	link := filepath.Join(dir, "link.flux")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	missing := filepath.Join(dir, "missing.flux")

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, nil},
		{"distinct", []string{a, b}, []string{a, b}},
		{"duplicate", []string{a, b, a}, []string{a, b}},
		{"symlink", []string{link, a}, []string{link}},
		{"stdin last", []string{"-", a}, []string{a, "-"}},
		{"stdin collapsed", []string{"-", "-", "-"}, []string{"-"}},
		{"unreadable kept", []string{missing, a, missing}, []string{missing, a, missing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uniqueFiles(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("uniqueFiles(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	ctx, _, errOut := withBuffers(t, "")

	_, syntaxErr := lang.ParseString(ctx, "print (1 +")
	if syntaxErr == nil {
		t.Fatal("expected a syntax error")
	}

	err := report(ctx, syntaxErr)
	if !errors.Is(err, ErrProgramFailed) || !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("report(syntax) = %v", err)
	}

	if !strings.Contains(errOut.String(), "1 | print (1 +") {
		t.Errorf("stderr lacks snippet: %q", errOut.String())
	}

	errOut.Reset()

	prog, _ := lang.ParseString(ctx, "print nope")

	err = report(ctx, lang.NewInterpreter().Run(ctx, prog))
	if !errors.Is(err, ErrProgramFailed) || !errors.Is(err, lang.ErrUndefinedVariable) {
		t.Errorf("report(runtime) = %v", err)
	}

	if got, want := errOut.String(),
		"[Flux Runtime Error] [line 1] Undefined variable 'nope'.\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}

	errOut.Reset()

	other := pkg.ErrSourceNotFound.Wrapf("%s", "x")
	if err := report(ctx, other); !errors.Is(err, pkg.ErrSourceNotFound) || errors.Is(err, ErrProgramFailed) {
		t.Errorf("report(other) = %v", err)
	}

	if report(ctx, nil) != nil {
		t.Error("report(nil) != nil")
	}

	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr: %q", errOut.String())
	}
}

func TestNewInterpreter_LoadFiles(t *testing.T) {
	dir := t.TempDir()
	lib := writeSource(t, dir, "lib.flux", "fun twice(n) { return 2 * n }\nprint \"loaded\"\n")

	ctx, out, _ := withBuffers(t, "")
	ctx = WithSearchPath(ctx, []string{dir})
	ctx = WithLoadFiles(ctx, []string{"lib", lib})

	interp, err := newInterpreter(ctx)
	if err != nil {
		t.Fatal(err)
	}

	prog, err := lang.ParseString(ctx, "print twice(21)")
	if err != nil {
		t.Fatal(err)
	}

	if err := interp.Run(ctx, prog); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "loaded\n42\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	ctx = WithLoadFiles(ctx, []string{"missing"})
	if _, err := newInterpreter(ctx); !errors.Is(err, pkg.ErrSourceNotFound) {
		t.Errorf("newInterpreter() error = %v, want ErrSourceNotFound", err)
	}
}

func TestError_Is(t *testing.T) {
	err := ErrWriteConfig.With().Wrap(ErrFileExists)

	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Errorf("errors.Is failed for %v", err)
	}

	if errors.Is(err, ErrWriteSource) {
		t.Error("matched an unrelated sentinel")
	}

	if got, want := err.Error(),
		"write configuration file: file exists (use --force to overwrite)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
