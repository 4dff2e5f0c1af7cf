package logger

import "github.com/user/qrstyle/pkg/ports"

// NoopLogger discards every message. Library entry points use it unless a
// caller supplies a logger, and New returns it for LevelQuiet.
type NoopLogger struct{}

// NewNoop creates a new no-op logger.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(msg string, args ...interface{}) {}
func (l *NoopLogger) Info(msg string, args ...interface{})  {}
func (l *NoopLogger) Warn(msg string, args ...interface{})  {}
func (l *NoopLogger) Error(msg string, args ...interface{}) {}

// WithComponent returns the same logger.
func (l *NoopLogger) WithComponent(component string) ports.Logger {
	return l
}

var (
	_ ports.Logger = (*NoopLogger)(nil)
	_ ports.Logger = (*ConsoleLogger)(nil)
)
