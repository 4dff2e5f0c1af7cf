package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/qrstyle/pkg/mocks"
	"github.com/user/qrstyle/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New(testBaseDir, fs, renderer)

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SavePlanJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New(testBaseDir, fs, renderer)

	data := []byte(`{"moduleSize": 14}`)
	if err := sink.SavePlanJSON(data); err != nil {
		t.Fatalf("SavePlanJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "plan.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SaveLayer(t *testing.T) {
	fs := mocks.NewFileSystem()
	var gotFormat ports.ImageFormat
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			gotFormat = format
			return []byte("png-bytes"), nil
		},
	}
	sink := New(testBaseDir, fs, renderer)

	if err := sink.SaveLayer("foreground", image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("SaveLayer failed: %v", err)
	}

	if gotFormat != ports.FormatPNG {
		t.Errorf("expected PNG encoding, got %s", gotFormat)
	}
	expectedPath := filepath.Join(testBaseDir, "layers", "foreground.png")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s, have %v", expectedPath, fs.Paths())
	}
	if string(saved) != "png-bytes" {
		t.Errorf("unexpected content %q", saved)
	}
	if exists, _ := fs.Exists(filepath.Join(testBaseDir, "layers")); !exists {
		t.Error("expected layers directory to be created")
	}
}

func TestSink_SaveLayerEncodeError(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}
	sink := New(testBaseDir, fs, renderer)

	if err := sink.SaveLayer("background", image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected encode error to be returned")
	}
	if len(fs.Paths()) != 0 {
		t.Errorf("expected nothing written, got %v", fs.Paths())
	}
}
