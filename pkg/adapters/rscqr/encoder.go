// Package rscqr adapts rsc.io/qr to ports.MatrixEncoder.
package rscqr

import (
	"fmt"

	"rsc.io/qr"

	"github.com/user/qrstyle/pkg/adapters/qrmatrix"
	"github.com/user/qrstyle/pkg/ports"
)

// Encoder encodes text with the rsc.io/qr engine.
type Encoder struct{}

// New creates a new Encoder.
func New() *Encoder {
	return &Encoder{}
}

// Encode builds the module matrix for text at the given level.
func (e *Encoder) Encode(text string, level ports.ECLevel) (ports.ModuleMatrix, error) {
	code, err := qr.Encode(text, qrLevel(level))
	if err != nil {
		return nil, fmt.Errorf("rsc encode: %w", err)
	}

	rows := make([][]bool, code.Size)
	for y := range rows {
		rows[y] = make([]bool, code.Size)
		for x := range rows[y] {
			rows[y][x] = code.Black(x, y)
		}
	}

	m, err := qrmatrix.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("rsc matrix: %w", err)
	}
	return m, nil
}

func qrLevel(level ports.ECLevel) qr.Level {
	switch level {
	case ports.ECLow:
		return qr.L
	case ports.ECQuartile:
		return qr.Q
	case ports.ECHigh:
		return qr.H
	default:
		return qr.M
	}
}

// Ensure Encoder implements ports.MatrixEncoder
var _ ports.MatrixEncoder = (*Encoder)(nil)
