// Package cli contains the command line interface for flux.
//
// # Usage
//
//	flux [flags] [run] <file|->
//	flux trace <file>
//	flux ast [--format text|json|yaml] <file>
//	flux env [--format text|json|yaml] [--where EXPR] <file>
//	flux fmt [--write] <file>
//	flux repl [--plain]
//
// Source names that do not exist relative to the working directory are
// looked up, with and without the .flux extension, in each --path directory
// and then in each directory listed in FLUXPATH.
//
// # Configuration
//
// Flags may also be set in config.yaml (or config.json) under the user
// configuration directory. Keys are flag names, with hyphens optionally
// written as underscores. The init command writes the current values:
//
//	log_level: debug
//	log_format: text
//	path:
//	  - /home/me/flux/lib
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o flux .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/flux/pprof)
package cli
