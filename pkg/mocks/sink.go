package mocks

import (
	"context"
	"image"
	"sync"

	"github.com/user/qrstyle/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	PlanJSON []byte
	Layers   map[string]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Layers:  make(map[string]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SavePlanJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlanJSON = data
	return nil
}

func (m *DebugSink) SaveLayer(name string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Layers[name] = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                                { return false }
func (m *NullSink) SavePlanJSON(data []byte) error               { return nil }
func (m *NullSink) SaveLayer(name string, img image.Image) error { return nil }

var _ ports.DebugSink = (*NullSink)(nil)

// OutputSink is a mock implementation of ports.OutputSink.
type OutputSink struct {
	mu sync.Mutex

	Err     error
	Outputs []ports.Output
}

func (m *OutputSink) Accept(ctx context.Context, out ports.Output) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outputs = append(m.Outputs, out)
	return m.Err
}

var _ ports.OutputSink = (*OutputSink)(nil)
