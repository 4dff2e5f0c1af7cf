// Package yeqownqr adapts github.com/yeqown/go-qrcode/v2 to ports.MatrixEncoder.
package yeqownqr

import (
	"fmt"

	"github.com/yeqown/go-qrcode/v2"

	"github.com/user/qrstyle/pkg/adapters/qrmatrix"
	"github.com/user/qrstyle/pkg/ports"
)

// Encoder encodes text with the yeqown QR engine.
type Encoder struct{}

// New creates a new Encoder.
func New() *Encoder {
	return &Encoder{}
}

// Encode builds the module matrix for text at the given level.
func (e *Encoder) Encode(text string, level ports.ECLevel) (ports.ModuleMatrix, error) {
	qrc, err := qrcode.NewWith(text, ecLevel(level))
	if err != nil {
		return nil, fmt.Errorf("yeqown encode: %w", err)
	}

	w := &matrixWriter{}
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("yeqown matrix: %w", err)
	}
	return w.bitmap, w.err
}

// matrixWriter captures the symbol matrix instead of writing an image.
type matrixWriter struct {
	bitmap *qrmatrix.Bitmap
	err    error
}

func (w *matrixWriter) Write(mat qrcode.Matrix) error {
	rows := make([][]bool, mat.Height())
	for i := range rows {
		rows[i] = make([]bool, mat.Width())
	}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		rows[y][x] = v.IsSet()
	})
	w.bitmap, w.err = qrmatrix.FromRows(rows)
	return w.err
}

func (w *matrixWriter) Close() error {
	return nil
}

func ecLevel(level ports.ECLevel) qrcode.EncodeOption {
	switch level {
	case ports.ECLow:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case ports.ECQuartile:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case ports.ECHigh:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	}
}

// Ensure Encoder implements ports.MatrixEncoder
var _ ports.MatrixEncoder = (*Encoder)(nil)
