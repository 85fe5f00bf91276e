// Package trace provides diagnostic logging for the heap, allocator, and
// arithmetic engine.
//
// Two layers exist. Package-level boolean flags, read once from the
// environment, gate the hot-path diagnostics: a disabled trace call costs one
// flag check and nothing else (no string construction, no I/O). On top of
// that, a structured slog logger is available for tools; it discards all
// output until Init enables it.
package trace

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Runtime trace flags, controlled by environment variables. Read once at
// process start; callers check the flag before building any log arguments.
var (
	// AllocEnabled turns on allocator tracing (MEMKIT_LOG_ALLOC).
	AllocEnabled = os.Getenv("MEMKIT_LOG_ALLOC") != ""

	// ArithEnabled turns on arithmetic engine tracing (MEMKIT_LOG_ARITH).
	ArithEnabled = os.Getenv("MEMKIT_LOG_ARITH") != ""

	// DebugChecks turns on debug-only consistency assertions such as
	// boundary-tag verification on free (MEMKIT_DEBUG).
	DebugChecks = os.Getenv("MEMKIT_DEBUG") != ""
)

// L is the global structured logger. It is initialized to discard all output
// by default. Call Init to enable it.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures the structured logger.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Output  io.Writer  // Destination. Default: os.Stderr
	Level   slog.Level // Minimum log level. Default: LevelInfo when enabled
}

// Init configures the structured logger. Call from main() before any log
// calls. If opts.Enabled is false, all output is discarded.
func Init(opts Options) {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	L = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: opts.Level}))
}

// Allocf prints an allocator trace line. Callers must check AllocEnabled
// first so the formatting cost is only paid when tracing is on:
//
//	if trace.AllocEnabled {
//	    trace.Allocf("reuse: off=%d size=%d", off, size)
//	}
func Allocf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[ALLOC] "+format+"\n", args...)
}

// Arithf prints an arithmetic engine trace line. Same contract as Allocf.
func Arithf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[ARITH] "+format+"\n", args...)
}
