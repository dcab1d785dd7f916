// Package logging provides the structured logging façade used throughout
// the proxy, a thin wrapper over logrus matching the field-based,
// component-scoped style the rest of the stack expects.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger every component receives. It is
// intentionally narrow: callers reach for WithField/WithFields to attach
// structured context, then log at one of four levels.
type Logger interface {
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Fields is a set of structured key/value pairs attached to a log line.
type Fields map[string]interface{}

// ComponentLogger scopes a Logger to a named component (e.g. "directory",
// "fetch", "admin"), the same convention the rest of the stack uses to
// filter logs by subsystem.
func ComponentLogger(base Logger, component string) Logger {
	return base.WithField("component", component)
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New builds the default Logger, writing leveled, text-formatted output to
// stderr.
func New(level logrus.Level) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// NewNop builds a Logger that discards everything, for tests and other
// callers that have no output sink of their own.
func NewNop() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithFields(fields Fields) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
