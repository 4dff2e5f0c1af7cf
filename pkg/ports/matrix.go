package ports

// ModuleMatrix is a read-only view of an encoded QR symbol.
// The matrix is square with ModuleCount() >= 21 and coordinates in
// [0, ModuleCount()).
type ModuleMatrix interface {
	// ModuleCount returns the number of modules on each side.
	ModuleCount() int

	// TypeNumber returns the symbol version (1-40).
	TypeNumber() int

	// IsDark reports whether the module at (row, col) is dark.
	IsDark(row, col int) bool

	// AlignmentCenters returns the ordered alignment pattern center
	// coordinates for the symbol version. Every pair (r, c) drawn from the
	// sequence is a candidate alignment pattern center.
	AlignmentCenters() []int
}

// ECLevel is a QR error correction level.
type ECLevel int

const (
	ECLow ECLevel = iota
	ECMedium
	ECQuartile
	ECHigh
)

// String returns the single-letter level name.
func (l ECLevel) String() string {
	switch l {
	case ECLow:
		return "L"
	case ECQuartile:
		return "Q"
	case ECHigh:
		return "H"
	default:
		return "M"
	}
}

// ParseECLevel parses L, M, Q or H. Unknown values map to ECMedium.
func ParseECLevel(s string) ECLevel {
	switch s {
	case "L", "l", "low":
		return ECLow
	case "Q", "q", "quartile":
		return ECQuartile
	case "H", "h", "high":
		return ECHigh
	default:
		return ECMedium
	}
}

// MatrixEncoder turns text into a module matrix using an external QR engine.
type MatrixEncoder interface {
	Encode(text string, level ECLevel) (ModuleMatrix, error)
}
