// Package logging provides the verbose diagnostics used across reginald.
package logging

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Logger writes debug output only when verbose mode is enabled;
// warnings are always written. A nil *Logger drops everything.
type Logger struct {
	mu      sync.Mutex
	enabled bool
	debug   *log.Logger
	warn    *log.Logger
	out     io.Writer
}

// New creates a logger writing to w.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{
		enabled: verbose,
		debug:   log.New(w, "[reginald] ", 0),
		warn:    log.New(w, "[reginald] WARN ", 0),
		out:     w,
	}
}

// Debugf prints a formatted message if verbose mode is enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.enabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug.Printf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warn.Printf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	if l == nil || !l.enabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "\n[reginald] === %s ===\n", name)
}

func (l *Logger) Enabled() bool { return l != nil && l.enabled }
