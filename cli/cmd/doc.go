// Package cmd implements the flux subcommands.
//
// Commands that execute a program (run, trace, env and repl) share one
// pipeline: the source name is resolved against the working directory and
// the search path, lexical diagnostics are written to stderr as warnings,
// the files given with --load are executed first, and a syntax or runtime
// error of the program is written to stderr and returned as
// [ErrProgramFailed].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
