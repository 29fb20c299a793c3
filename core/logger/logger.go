package logger

// Logger is the logging surface the routing layers depend on. Severity
// methods take printf-style arguments; Debugw carries structured fields
// for high-volume dispatch diagnostics.
type Logger interface {
	Debugf(format string, args ...any)
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
