// Package profile provides optional runtime profiling for flux.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof .
//	flux --pprof-mode cpu run fib.flux
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op.
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. Profiles are written to the configured path,
// which defaults to a "pprof" directory under the user cache directory.
package profile
