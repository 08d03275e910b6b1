package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger writes diagnostics with a [HH:MM:SS] timestamp and a level
// tag. It is safe for concurrent use. Listing output and per-path error
// lines do not go through it.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to w. A nil writer
// discards everything. Unknown levels fall back to "warn".
func NewConsoleLogger(w io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(w),
	}
}

// isTerminal reports whether w is os.Stdout or os.Stderr attached to a TTY.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

// normalizeLogLevel lowercases and validates a level name.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "warn"
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "error":
		return levelError
	default:
		return levelWarn
	}
}

func (cl *ConsoleLogger) shouldLog(level string) bool {
	return logLevelToInt(level) >= logLevelToInt(cl.logLevel)
}

func (cl *ConsoleLogger) logf(level, format string, args ...any) {
	if cl == nil || cl.writer == nil || !cl.shouldLog(level) {
		return
	}

	tag := strings.ToUpper(level)
	if cl.colorOutput {
		switch level {
		case "trace":
			tag = color.New(color.FgHiBlack).Sprint(tag)
		case "debug":
			tag = color.New(color.FgCyan).Sprint(tag)
		case "info":
			tag = color.New(color.FgBlue).Sprint(tag)
		case "warn":
			tag = color.New(color.FgYellow).Sprint(tag)
		case "error":
			tag = color.New(color.FgRed).Sprint(tag)
		}
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	fmt.Fprintf(cl.writer, "[%s] %s %s\n", time.Now().Format("15:04:05"), tag, fmt.Sprintf(format, args...))
}

func (cl *ConsoleLogger) Tracef(format string, args ...any) { cl.logf("trace", format, args...) }
func (cl *ConsoleLogger) Debugf(format string, args ...any) { cl.logf("debug", format, args...) }
func (cl *ConsoleLogger) Infof(format string, args ...any)  { cl.logf("info", format, args...) }
func (cl *ConsoleLogger) Warnf(format string, args ...any)  { cl.logf("warn", format, args...) }
func (cl *ConsoleLogger) Errorf(format string, args ...any) { cl.logf("error", format, args...) }
