package fileoutput

import (
	"context"
	"errors"
	"testing"

	"github.com/user/qrstyle/pkg/mocks"
	"github.com/user/qrstyle/pkg/ports"
)

func TestSink_Accept(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("out/qr-code.png", fs)

	err := sink.Accept(context.Background(), ports.Output{Data: []byte("png"), MIMEType: "image/png"})
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	data, ok := fs.GetFile("out/qr-code.png")
	if !ok || string(data) != "png" {
		t.Errorf("expected file written, got %q (ok=%v)", data, ok)
	}
	if sink.Path() != "out/qr-code.png" {
		t.Errorf("unexpected path %q", sink.Path())
	}
}

func TestSink_AcceptEmpty(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("qr-code.png", fs)

	if err := sink.Accept(context.Background(), ports.Output{}); err == nil {
		t.Error("expected error for empty output")
	}
}

func TestSink_AcceptWriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("disk full")
	}
	sink := New("qr-code.png", fs)

	if err := sink.Accept(context.Background(), ports.Output{Data: []byte("x")}); err == nil {
		t.Error("expected write error")
	}
}

func TestSink_AcceptCancelled(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("qr-code.png", fs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sink.Accept(ctx, ports.Output{Data: []byte("x")}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(fs.Paths()) != 0 {
		t.Error("expected nothing written after cancellation")
	}
}
