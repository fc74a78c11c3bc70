package driver

import (
	"fmt"
	"io"
)

// Logger is the pipeline's global logging sink: a stream plus a
// warnings-only gate, matching the teacher's preference for writing
// operator-facing text straight to an io.Writer over adopting a
// structured logging library the corpus never reaches for.
type Logger struct {
	W        io.Writer
	Warnings bool
}

// Info writes an informational line: load events, settings echoes,
// skip/keep decisions.
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil || l.W == nil {
		return
	}
	fmt.Fprintf(l.W, format+"\n", args...)
}

// Warn writes a recoverable-warning line, gated by l.Warnings.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l == nil || l.W == nil || !l.Warnings {
		return
	}
	fmt.Fprintf(l.W, "warning: "+format+"\n", args...)
}

// Fatal writes a fatal-error line. Callers still receive the error value
// for their own propagation (process exit for the CLI, a fatal-popup
// callback for a GUI host); Fatal itself never terminates anything.
func (l *Logger) Fatal(format string, args ...interface{}) {
	if l == nil || l.W == nil {
		return
	}
	fmt.Fprintf(l.W, "fatal: "+format+"\n", args...)
}
