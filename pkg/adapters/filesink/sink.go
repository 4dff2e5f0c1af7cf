// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/qrstyle/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SavePlanJSON saves the render plan as JSON.
func (s *Sink) SavePlanJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "plan.json")
	return s.fs.WriteFile(path, data)
}

// SaveLayer saves an intermediate layer as layers/<name>.png.
func (s *Sink) SaveLayer(name string, img image.Image) error {
	dir := filepath.Join(s.baseDir, "layers")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode layer %s: %w", name, err)
	}
	path := filepath.Join(dir, name+".png")
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
