// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program loaded", slog.String("file", "fib.flux"))
//	logger.Error("run failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("none"))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. The interpreter reports each executed
// statement and evaluated expression at [LevelTrace] when tracing is enabled.
//
// # Context-Aware Logging
//
// Each level has a context-aware and a context-unaware variant. The latter
// call the former with [DefaultContextProvider], which returns
// [context.TODO] by default.
//
// # Package Logger
//
// The package-level functions ([Info], [ErrorContext], ...) write through a
// default logger that [Config] reconfigures in place.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. Both have a colorized multi-line or key=value rendering
// enabled by [WithPretty].
package log
