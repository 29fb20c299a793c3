package logger

import corelogger "github.com/typemux/typemux/core/logger"

// Logger mirrors the core logger interface so infra packages need only
// this import.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a Logger for the given component, using the level and
// format applied by Setup.
func New(component string) Logger {
	return NewZerologLogger(component)
}
