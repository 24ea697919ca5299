package minikanren

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// Lightweight, opt-in tracing of bindings, constraint filings and fork
// expansion. Enable it for the whole process by setting env var
// LAZYKANREN_TRACE=1 or by calling SetSearchTrace; records then go to the
// trace logger, which defaults to slog.Default(). Config.TraceSearch instead
// traces only the searches a Runner starts, to the runner's own logger.
// Records are written at debug level.

var (
	searchTraceEnabled atomic.Bool
	traceLogger        atomic.Pointer[slog.Logger]
)

func init() {
	if os.Getenv("LAZYKANREN_TRACE") == "1" {
		searchTraceEnabled.Store(true)
	}
}

// SetSearchTrace turns search tracing on or off for the whole process.
func SetSearchTrace(on bool) {
	searchTraceEnabled.Store(on)
}

// SetTraceLogger directs process-wide search tracing to l. A nil logger
// restores slog.Default().
func SetTraceLogger(l *slog.Logger) {
	traceLogger.Store(l)
}

// tracing reports whether searches from s are traced, either process-wide
// or through a logger attached with withTraceLogger.
func (s State) tracing() bool {
	return (s.opts != nil && s.opts.traceLog != nil) || searchTraceEnabled.Load()
}

// trace writes a search record for s. A logger attached to the state takes
// precedence over the process-wide one.
func (s State) trace(msg string, attrs ...slog.Attr) {
	var l *slog.Logger
	switch {
	case s.opts != nil && s.opts.traceLog != nil:
		l = s.opts.traceLog
	case searchTraceEnabled.Load():
		if l = traceLogger.Load(); l == nil {
			l = slog.Default()
		}
	default:
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, "search: "+msg, attrs...)
}
