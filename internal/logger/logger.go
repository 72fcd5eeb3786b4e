// Package logger provides build logging for the cmsbuild CLI.
// Info, warnings and errors are always printed. Debug messages are printed
// only when verbose mode is enabled via the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	debugTag = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	infoTag  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnTag  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errorTag = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Logger writes levelled messages to an output.
// The zero value is not usable; use New or Nop.
type Logger struct {
	mu      sync.RWMutex
	verbose bool
	color   bool
	output  io.Writer
}

// New creates a logger writing to w.
// Colour is enabled when w is a terminal.
func New(w io.Writer) *Logger {
	return &Logger{output: w, color: isTerminal(w)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{output: io.Discard}
}

// SetVerbose enables or disables debug output.
func (l *Logger) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

// SetColor forces coloured tags on or off.
func (l *Logger) SetColor(c bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
}

// SetOutput sets the output writer.
// Colour detection is re-run against the new writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.color = isTerminal(w)
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.verbose {
		l.write(debugTag, "DEBUG", format, args)
	}
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.verbose {
		fmt.Fprintf(l.output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(infoTag, "INFO", format, args)
}

// Warn prints a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(warnTag, "WARN", format, args)
}

// Error prints an error message.
func (l *Logger) Error(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(errorTag, "ERROR", format, args)
}

// write must be called with mu held.
func (l *Logger) write(style lipgloss.Style, level, format string, args []any) {
	tag := "[" + level + "]"
	if l.color {
		tag = style.Render(tag)
	}
	fmt.Fprintf(l.output, tag+" "+format+"\n", args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

var std = New(os.Stderr)

// Default returns the process-wide logger used by the CLI.
func Default() *Logger {
	return std
}

// SetVerbose enables or disables verbose logging on the default logger.
func SetVerbose(v bool) { std.SetVerbose(v) }

// IsVerbose returns true if verbose mode is enabled on the default logger.
func IsVerbose() bool { return std.IsVerbose() }

// SetColor forces coloured tags on the default logger.
func SetColor(c bool) { std.SetColor(c) }

// SetOutput sets the output writer for the default logger.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// Debug prints a debug message on the default logger.
func Debug(format string, args ...any) { std.Debug(format, args...) }

// Section prints a section header on the default logger.
func Section(name string) { std.Section(name) }

// Info prints an informational message on the default logger.
func Info(format string, args ...any) { std.Info(format, args...) }

// Warn prints a warning on the default logger.
func Warn(format string, args ...any) { std.Warn(format, args...) }

// Error prints an error on the default logger.
func Error(format string, args ...any) { std.Error(format, args...) }
