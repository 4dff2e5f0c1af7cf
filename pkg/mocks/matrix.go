package mocks

import "github.com/user/qrstyle/pkg/ports"

// Matrix is a mock implementation of ports.ModuleMatrix.
// Without DarkFunc every module is dark.
type Matrix struct {
	N        int
	Version  int
	Centers  []int
	DarkFunc func(row, col int) bool
}

// NewMatrix returns an all-dark matrix with the side of the given version.
func NewMatrix(version int, centers ...int) *Matrix {
	return &Matrix{N: 17 + 4*version, Version: version, Centers: centers}
}

func (m *Matrix) ModuleCount() int { return m.N }
func (m *Matrix) TypeNumber() int  { return m.Version }

func (m *Matrix) IsDark(row, col int) bool {
	if m.DarkFunc != nil {
		return m.DarkFunc(row, col)
	}
	return true
}

func (m *Matrix) AlignmentCenters() []int { return m.Centers }

var _ ports.ModuleMatrix = (*Matrix)(nil)

// Encoder is a mock implementation of ports.MatrixEncoder.
type Encoder struct {
	EncodeFunc func(text string, level ports.ECLevel) (ports.ModuleMatrix, error)
	Calls      []string
}

func (m *Encoder) Encode(text string, level ports.ECLevel) (ports.ModuleMatrix, error) {
	m.Calls = append(m.Calls, text)
	if m.EncodeFunc != nil {
		return m.EncodeFunc(text, level)
	}
	return NewMatrix(1), nil
}

var _ ports.MatrixEncoder = (*Encoder)(nil)
