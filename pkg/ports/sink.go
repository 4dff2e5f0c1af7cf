package ports

import (
	"context"
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate render layers for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SavePlanJSON saves the render plan as JSON.
	SavePlanJSON(data []byte) error

	// SaveLayer saves an intermediate surface image under a short name
	// such as "foreground" or "background".
	SaveLayer(name string, img image.Image) error
}

// Output is the encoded final image handed to output sinks.
type Output struct {
	Data     []byte
	MIMEType string
	DataURI  string
	Width    int
	Height   int
}

// OutputSink accepts a finished render. Sinks are invoked once per render
// after compositing. A sink error is logged by the caller and never affects
// the render result.
type OutputSink interface {
	Accept(ctx context.Context, out Output) error
}

// OutputFunc adapts a function to OutputSink.
type OutputFunc func(ctx context.Context, out Output) error

// Accept implements OutputSink.
func (f OutputFunc) Accept(ctx context.Context, out Output) error {
	return f(ctx, out)
}
