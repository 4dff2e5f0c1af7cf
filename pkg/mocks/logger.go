package mocks

import (
	"fmt"
	"sync"

	"github.com/user/qrstyle/pkg/ports"
)

// Logger is a mock implementation of ports.Logger that captures messages.
// Component loggers share the parent's buffers.
type Logger struct {
	mu    *sync.Mutex
	store *logStore
}

type logStore struct {
	Debugs []string
	Infos  []string
	Warns  []string
	Errors []string
}

// NewLogger creates a capturing Logger.
func NewLogger() *Logger {
	return &Logger{mu: &sync.Mutex{}, store: &logStore{}}
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.add(&m.store.Debugs, msg, args) }
func (m *Logger) Info(msg string, args ...interface{})  { m.add(&m.store.Infos, msg, args) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.add(&m.store.Warns, msg, args) }
func (m *Logger) Error(msg string, args ...interface{}) { m.add(&m.store.Errors, msg, args) }

func (m *Logger) WithComponent(component string) ports.Logger {
	return m
}

// Warnings returns the formatted warn messages.
func (m *Logger) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.store.Warns...)
}

// Errors returns the formatted error messages.
func (m *Logger) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.store.Errors...)
}

func (m *Logger) add(dst *[]string, msg string, args []interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	*dst = append(*dst, msg)
}

var _ ports.Logger = (*Logger)(nil)
