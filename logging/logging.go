package logging

import (
	"log"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// ParseLogLevel translates a string representation of a log level to its enum value
func ParseLogLevel(s string) (int, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TraceLevel, true
	case "DEBUG":
		return DebugLevel, true
	case "INFO":
		return InfoLevel, true
	case "WARN", "WARNING":
		return WarnLevel, true
	case "ERROR":
		return ErrorLevel, true
	case "FATAL":
		return FatalLevel, true
	default:
		return InfoLevel, false
	}
}

// V returns the logr verbosity used for messages at the given level.
// Info and above log at verbosity 0; debug at 1 and trace at 2.
func V(level int) int {
	switch level {
	case TraceLevel:
		return 2
	case DebugLevel:
		return 1
	default:
		return 0
	}
}

// NewLogger produces a logr.Logger writing to stderr through the standard log package,
// which emits messages at or above the given level
func NewLogger(name string, level int) logr.Logger {
	return newLogger(name, level, log.New(os.Stderr, "", log.LstdFlags))
}

func newLogger(name string, level int, std stdr.StdLogger) logr.Logger {
	stdr.SetVerbosity(V(level))
	sink := stdr.NewWithOptions(std, stdr.Options{LogCaller: stdr.None}).GetSink()
	return logr.New(levelSink{LogSink: sink, errorsOnly: level > InfoLevel}).WithName(name)
}

// levelSink drops every non-error message when errorsOnly is set
type levelSink struct {
	logr.LogSink
	errorsOnly bool
}

func (s levelSink) Enabled(v int) bool {
	return !s.errorsOnly && s.LogSink.Enabled(v)
}

func (s levelSink) WithName(name string) logr.LogSink {
	return levelSink{LogSink: s.LogSink.WithName(name), errorsOnly: s.errorsOnly}
}

func (s levelSink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	return levelSink{LogSink: s.LogSink.WithValues(keysAndValues...), errorsOnly: s.errorsOnly}
}

// Trace logs a message at TraceLevel
func Trace(l logr.Logger, msg string, keysAndValues ...interface{}) {
	l.V(V(TraceLevel)).Info(msg, keysAndValues...)
}

// Debug logs a message at DebugLevel
func Debug(l logr.Logger, msg string, keysAndValues ...interface{}) {
	l.V(V(DebugLevel)).Info(msg, keysAndValues...)
}
