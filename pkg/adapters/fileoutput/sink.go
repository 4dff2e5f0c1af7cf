// Package fileoutput provides an output sink that writes the encoded
// render to a file.
package fileoutput

import (
	"context"
	"fmt"

	"github.com/user/qrstyle/pkg/ports"
)

// Sink writes each accepted output to a fixed path.
type Sink struct {
	path string
	fs   ports.FileSystem
}

// New creates a Sink writing to path through fs.
func New(path string, fs ports.FileSystem) *Sink {
	return &Sink{path: path, fs: fs}
}

// Path returns the destination path.
func (s *Sink) Path() string {
	return s.path
}

// Accept writes the encoded bytes, replacing any previous file.
func (s *Sink) Accept(ctx context.Context, out ports.Output) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(out.Data) == 0 {
		return fmt.Errorf("write %s: empty output", s.path)
	}
	if err := s.fs.WriteFile(s.path, out.Data); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Ensure Sink implements ports.OutputSink
var _ ports.OutputSink = (*Sink)(nil)
