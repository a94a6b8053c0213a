// Package obs wires up process-wide structured logging for sws, using
// github.com/joeycumines/logiface backed by github.com/joeycumines/stumpy
// (a zero-allocation JSON-line writer), the same way the teacher repo's
// sql/export package injects a *logiface.Logger[logiface.Event] and calls
// its chained Str/Int/Log builder methods.
//
// The literal, byte-exact lines required by spec.md §6 (the wire protocol
// status lines, and the "Request <seq> completed" stdout line) are NOT
// routed through this package — they are part of the testable external
// contract and are written directly by the scheduler package. This
// package only carries the diagnostic/error logging called for by
// spec.md §7.
package obs

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/joeycumines/sws/scheduler"
)

// Logger wraps a *logiface.Logger[*stumpy.Event], implementing
// scheduler.ErrorLogger.
type Logger struct {
	log *logiface.Logger[*stumpy.Event]
}

var _ scheduler.ErrorLogger = (*Logger)(nil)

// New constructs a Logger writing structured diagnostics to w (typically
// os.Stderr).
func New(w io.Writer) *Logger {
	return &Logger{
		log: stumpy.L.New(
			stumpy.L.WithLevel(logiface.LevelDebug),
			stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		),
	}
}

// Error logs a non-fatal diagnostic for rcb, associated with the given
// operation, per spec.md §7 ("log to stderr; destroy RCB; continue").
func (l *Logger) Error(rcb *scheduler.RCB, op string, err error) {
	l.log.Err().
		Str(`op`, op).
		Str(`path`, rcb.Path).
		Int64(`seq`, rcb.SeqNum).
		Err(err).
		Log(`request failed`)
}

// Fatal logs msg with err and terminates the process, mirroring the
// original source's abort() path for unrecoverable configuration errors
// (spec.md §7: "Fatal; abort process").
func (l *Logger) Fatal(msg string, err error) {
	l.log.Fatal().Err(err).Log(msg)
}

// Debug logs a low-frequency structured debug line, used for the
// completion-stats summaries of internal/stats.
func (l *Logger) Debug(msg string, fields map[string]any) {
	b := l.log.Debug()
	for k, v := range fields {
		b = b.Interface(k, v)
	}
	b.Log(msg)
}
