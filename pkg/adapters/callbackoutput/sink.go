// Package callbackoutput adapts a plain function into an output sink.
package callbackoutput

import (
	"context"
	"fmt"

	"github.com/user/qrstyle/pkg/ports"
)

// Callback receives a finished render.
type Callback func(out ports.Output)

// Sink invokes a callback for each accepted output. A panicking callback
// is reported as an error.
type Sink struct {
	fn Callback
}

// New creates a Sink around fn. A nil fn accepts and drops every output.
func New(fn Callback) *Sink {
	return &Sink{fn: fn}
}

// Accept hands out to the callback.
func (s *Sink) Accept(ctx context.Context, out ports.Output) (err error) {
	if s.fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panicked: %v", r)
		}
	}()
	s.fn(out)
	return nil
}

// Ensure Sink implements ports.OutputSink
var _ ports.OutputSink = (*Sink)(nil)
