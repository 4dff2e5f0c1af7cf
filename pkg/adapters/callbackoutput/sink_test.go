package callbackoutput

import (
	"context"
	"testing"

	"github.com/user/qrstyle/pkg/ports"
)

func TestSink_Accept(t *testing.T) {
	var got []ports.Output
	sink := New(func(out ports.Output) {
		got = append(got, out)
	})

	out := ports.Output{DataURI: "data:image/png;base64,AA==", Width: 320, Height: 320}
	if err := sink.Accept(context.Background(), out); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 call, got %d", len(got))
	}
	if got[0].DataURI != out.DataURI {
		t.Errorf("expected %q, got %q", out.DataURI, got[0].DataURI)
	}
}

func TestSink_NilCallback(t *testing.T) {
	if err := New(nil).Accept(context.Background(), ports.Output{}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestSink_PanicBecomesError(t *testing.T) {
	sink := New(func(out ports.Output) {
		panic("bad consumer")
	})

	if err := sink.Accept(context.Background(), ports.Output{}); err == nil {
		t.Error("expected error from panicking callback")
	}
}
