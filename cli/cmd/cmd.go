package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/flux/lang"
	"github.com/ardnew/flux/log"
	"github.com/ardnew/flux/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or "" if there is no kong
// context in ctx.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

type (
	stdioKey      struct{}
	searchPathKey struct{}
	loadFilesKey  struct{}

	stdio struct {
		in       io.Reader
		out, err io.Writer
	}
)

// WithStdio returns a new context.Context whose commands read from in and
// write program output to out and diagnostics to errOut. Nil arguments keep
// the process's standard streams.
func WithStdio(
	ctx context.Context,
	in io.Reader,
	out, errOut io.Writer,
) context.Context {
	s := stdioFrom(ctx)

	if in != nil {
		s.in = in
	}

	if out != nil {
		s.out = out
	}

	if errOut != nil {
		s.err = errOut
	}

	return context.WithValue(ctx, stdioKey{}, s)
}

func stdioFrom(ctx context.Context) stdio {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok {
		return s
	}

	return stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// WithSearchPath returns a new context.Context containing the directories
// searched, in order, for source names that do not exist relative to the
// working directory.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// WithLoadFiles returns a new context.Context containing source files that
// are executed, in order, in every new interpreter before the command's own
// program. Names are resolved like any other source.
func WithLoadFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, loadFilesKey{}, sources)
}

func loadFilesFrom(ctx context.Context) []string {
	sources, _ := ctx.Value(loadFilesKey{}).([]string)

	return sources
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// resolveSource returns the path of the named source.
//
// A name that exists relative to the working directory is used as-is.
// Otherwise each search path directory is tried, first with the name itself
// and then with [pkg.SourceExt] appended.
func resolveSource(ctx context.Context, name string) (string, error) {
	if name == stdinSource {
		return name, nil
	}

	candidates := []string{name, name + pkg.SourceExt}

	if !filepath.IsAbs(name) {
		for _, dir := range searchPathFrom(ctx) {
			candidates = append(candidates,
				filepath.Join(dir, name),
				filepath.Join(dir, name+pkg.SourceExt),
			)
		}
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			log.TraceContext(ctx, "resolved source",
				slog.String("name", name),
				slog.String("path", path),
			)

			return path, nil
		}
	}

	return "", pkg.ErrSourceNotFound.Wrapf("%s", name)
}

// readSource resolves and reads the named source.
func readSource(ctx context.Context, name string) (text, path string, err error) {
	path, err = resolveSource(ctx, name)
	if err != nil {
		return "", "", err
	}

	var buf []byte

	if path == stdinSource {
		ra := readahead.NewReader(stdioFrom(ctx).in)
		buf, err = io.ReadAll(ra)
		ra.Close()
	} else {
		buf, err = os.ReadFile(path)
	}

	if err != nil {
		return "", "", pkg.ErrReadInput.Wrap(err)
	}

	return string(buf), path, nil
}

// parseSource reads and parses the named source. Lexical diagnostics are
// written to stderr as warnings; a syntax error is returned unreported.
func parseSource(ctx context.Context, name string) (*lang.Program, error) {
	text, path, err := readSource(ctx, name)
	if err != nil {
		return nil, err
	}

	prog, err := lang.ParseString(ctx, text, lang.WithLogger(log.Default()))

	for _, w := range prog.Warnings {
		warn(ctx, w)
	}

	log.DebugContext(ctx, "parsed source",
		slog.String("path", path),
		slog.Int("statements", len(prog.Statements)),
		slog.Int("warnings", len(prog.Warnings)),
	)

	return prog, err
}

// newInterpreter returns an interpreter writing to the context's stdout that
// has already executed the context's load files.
func newInterpreter(
	ctx context.Context,
	opts ...lang.Option,
) (*lang.Interpreter, error) {
	base := []lang.Option{
		lang.WithOutput(stdioFrom(ctx).out),
		lang.WithLogger(log.Default()),
	}

	interp := lang.NewInterpreter(append(base, opts...)...)

	var paths []string

	for _, name := range loadFilesFrom(ctx) {
		path, err := resolveSource(ctx, name)
		if err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	for _, path := range uniqueFiles(paths) {
		prog, err := parseSource(ctx, path)
		if err != nil {
			return nil, err
		}

		err = interp.Run(ctx, prog)
		if err != nil {
			return nil, err
		}

		log.DebugContext(ctx, "loaded source", slog.String("path", path))
	}

	return interp, nil
}

// warn writes a lexical diagnostic to stderr.
func warn(ctx context.Context, err *lang.SyntaxError) {
	w := stdioFrom(ctx).err

	fmt.Fprintln(w, "warning:", err.Error())
	fmt.Fprint(w, err.Snippet())
}

// report writes errors raised by the Flux program to stderr and returns
// [ErrProgramFailed] wrapping them. Any other error is returned unchanged.
func report(ctx context.Context, err error) error {
	var (
		syntaxErr  *lang.SyntaxError
		runtimeErr *lang.RuntimeError
	)

	w := stdioFrom(ctx).err

	switch {
	case errors.As(err, &syntaxErr):
		fmt.Fprintln(w, syntaxErr.Error())
		fmt.Fprint(w, syntaxErr.Snippet())

	case errors.As(err, &runtimeErr):
		fmt.Fprintln(w, runtimeErr.Error())

	default:
		return err
	}

	return ErrProgramFailed.Wrap(err)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueFiles returns the sources with duplicates removed, keeping the first
// occurrence. Duplicates are detected by resolving symlinks and comparing
// device/inode pairs. All occurrences of "-" collapse to a single stdin
// source placed last so it reads after all regular files. Paths that
// cannot be examined are kept as-is.
func uniqueFiles(sources []string) []string {
	if len(sources) == 0 {
		return nil
	}

	unique := make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		key, ok := statFileKey(src)
		if !ok {
			unique = append(unique, src)

			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, src)
	}

	if hasStdin {
		unique = append(unique, stdinSource)
	}

	return unique
}

// statFileKey resolves path to its target and returns its fileKey.
func statFileKey(path string) (fileKey, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
