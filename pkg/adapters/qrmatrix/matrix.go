// Package qrmatrix provides a plain in-memory ports.ModuleMatrix and the
// alignment pattern center table shared by the encoder adapters.
package qrmatrix

import (
	"errors"
	"fmt"

	"github.com/user/qrstyle/pkg/ports"
)

// MinModuleCount is the side of a version 1 symbol.
const MinModuleCount = 21

// ErrInvalidSize is returned for bitmaps that are not a valid QR symbol side.
var ErrInvalidSize = errors.New("qrmatrix: invalid symbol size")

// Bitmap is a square module matrix stored row-major.
type Bitmap struct {
	n       int
	dark    []bool
	version int
	centers []int
}

// New returns an all-light matrix for the given version.
func New(version int) (*Bitmap, error) {
	if version < 1 || version > 40 {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidSize, version)
	}
	n := SideForVersion(version)
	return &Bitmap{
		n:       n,
		dark:    make([]bool, n*n),
		version: version,
		centers: AlignmentCenters(version),
	}, nil
}

// FromRows builds a matrix from rows of dark flags. The side must be
// 17+4v for some version v in 1..40.
func FromRows(rows [][]bool) (*Bitmap, error) {
	n := len(rows)
	version, ok := VersionForSide(n)
	if !ok {
		return nil, fmt.Errorf("%w: %d modules", ErrInvalidSize, n)
	}
	b, err := New(version)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d modules, want %d", ErrInvalidSize, r, len(row), n)
		}
		copy(b.dark[r*n:(r+1)*n], row)
	}
	return b, nil
}

// Set marks a module dark or light. Out-of-range coordinates are ignored.
func (b *Bitmap) Set(row, col int, dark bool) {
	if row < 0 || col < 0 || row >= b.n || col >= b.n {
		return
	}
	b.dark[row*b.n+col] = dark
}

// ModuleCount returns the number of modules on each side.
func (b *Bitmap) ModuleCount() int { return b.n }

// TypeNumber returns the symbol version.
func (b *Bitmap) TypeNumber() int { return b.version }

// IsDark reports whether the module at (row, col) is dark.
// Out-of-range coordinates are light.
func (b *Bitmap) IsDark(row, col int) bool {
	if row < 0 || col < 0 || row >= b.n || col >= b.n {
		return false
	}
	return b.dark[row*b.n+col]
}

// AlignmentCenters returns the alignment pattern center coordinates.
func (b *Bitmap) AlignmentCenters() []int {
	out := make([]int, len(b.centers))
	copy(out, b.centers)
	return out
}

// SideForVersion returns the module count of a version.
func SideForVersion(version int) int {
	return 17 + 4*version
}

// VersionForSide returns the version whose side is n.
func VersionForSide(n int) (int, bool) {
	if n < MinModuleCount || (n-17)%4 != 0 {
		return 0, false
	}
	v := (n - 17) / 4
	return v, v >= 1 && v <= 40
}

// alignmentTable lists the alignment pattern row/column coordinates per
// version (ISO/IEC 18004 Annex E), indexed by version-1.
var alignmentTable = [40][]int{
	{},
	{6, 18},
	{6, 22},
	{6, 26},
	{6, 30},
	{6, 34},
	{6, 22, 38},
	{6, 24, 42},
	{6, 26, 46},
	{6, 28, 50},
	{6, 30, 54},
	{6, 32, 58},
	{6, 34, 62},
	{6, 26, 46, 66},
	{6, 26, 48, 70},
	{6, 26, 50, 74},
	{6, 30, 54, 78},
	{6, 30, 56, 82},
	{6, 30, 58, 86},
	{6, 34, 62, 90},
	{6, 28, 50, 72, 94},
	{6, 26, 50, 74, 98},
	{6, 30, 54, 78, 102},
	{6, 28, 54, 80, 106},
	{6, 32, 58, 84, 110},
	{6, 30, 58, 86, 114},
	{6, 34, 62, 90, 118},
	{6, 26, 50, 74, 98, 122},
	{6, 30, 54, 78, 102, 126},
	{6, 26, 52, 78, 104, 130},
	{6, 30, 56, 82, 108, 134},
	{6, 34, 60, 86, 112, 138},
	{6, 30, 58, 86, 114, 142},
	{6, 34, 62, 90, 118, 146},
	{6, 30, 54, 78, 102, 126, 150},
	{6, 24, 50, 76, 102, 128, 154},
	{6, 28, 54, 80, 106, 132, 158},
	{6, 32, 58, 84, 110, 136, 162},
	{6, 26, 54, 82, 110, 138, 166},
	{6, 30, 58, 86, 114, 142, 170},
}

// AlignmentCenters returns a copy of the alignment coordinates for a
// version, or nil when the version is out of range.
func AlignmentCenters(version int) []int {
	if version < 1 || version > 40 {
		return nil
	}
	src := alignmentTable[version-1]
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// Ensure Bitmap implements ports.ModuleMatrix
var _ ports.ModuleMatrix = (*Bitmap)(nil)
