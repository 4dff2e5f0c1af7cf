// Package skip2qr adapts github.com/skip2/go-qrcode to ports.MatrixEncoder.
package skip2qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/user/qrstyle/pkg/adapters/qrmatrix"
	"github.com/user/qrstyle/pkg/ports"
)

// Encoder encodes text with the skip2 QR engine.
type Encoder struct{}

// New creates a new Encoder.
func New() *Encoder {
	return &Encoder{}
}

// Encode builds the module matrix for text at the given level.
func (e *Encoder) Encode(text string, level ports.ECLevel) (ports.ModuleMatrix, error) {
	q, err := qrcode.New(text, recoveryLevel(level))
	if err != nil {
		return nil, fmt.Errorf("skip2 encode: %w", err)
	}
	// The bitmap must be the bare symbol; the renderer draws its own margin.
	q.DisableBorder = true

	m, err := qrmatrix.FromRows(q.Bitmap())
	if err != nil {
		return nil, fmt.Errorf("skip2 matrix: %w", err)
	}
	return m, nil
}

func recoveryLevel(level ports.ECLevel) qrcode.RecoveryLevel {
	switch level {
	case ports.ECLow:
		return qrcode.Low
	case ports.ECQuartile:
		return qrcode.High
	case ports.ECHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// Ensure Encoder implements ports.MatrixEncoder
var _ ports.MatrixEncoder = (*Encoder)(nil)
