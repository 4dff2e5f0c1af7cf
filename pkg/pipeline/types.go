package pipeline

import (
	"image"
	"image/color"

	"github.com/user/qrstyle/pkg/ports"
)

// =============================================================================
// Common Types
// =============================================================================

// Rect is an axis-aligned rectangle in pixel space.
type Rect = ports.Rect

// BlockStyle is the shape used for stylized (non-protected) dark modules.
type BlockStyle int

const (
	BlockSquare BlockStyle = iota
	BlockCircle
)

// String returns the option name of the block style.
func (b BlockStyle) String() string {
	if b == BlockCircle {
		return "circle"
	}
	return "square"
}

// ParseBlockStyle parses "square" or "circle". Unknown values map to BlockSquare.
func ParseBlockStyle(s string) BlockStyle {
	if s == "circle" {
		return BlockCircle
	}
	return BlockSquare
}

// =============================================================================
// Plan Stage Types
// =============================================================================

// SizingPolicy decides how the module size is derived from the requested size.
type SizingPolicy int

const (
	// SizeByModuleCount divides the drawable area by the module count.
	SizeByModuleCount SizingPolicy = iota
	// SizeWithHalfModuleBorder divides by moduleCount+1, leaving room for a
	// half-module border in vector output.
	SizeWithHalfModuleBorder
)

// PlanInput contains parameters for geometry planning.
type PlanInput struct {
	Size        int // Requested output side in pixels
	Margin      int // Requested quiet zone in pixels
	ModuleCount int // Modules per side
	Sizing      SizingPolicy
}

// RenderPlan is the pixel geometry of one render call.
// FinalSize == ModuleCount*ModuleSize + 2*Margin always holds.
type RenderPlan struct {
	RequestedSize int `json:"requestedSize"`
	ModuleCount   int `json:"moduleCount"`
	Margin        int `json:"margin"`
	ModuleSize    int `json:"moduleSize"`
	ViewportSize  int `json:"viewportSize"`
	FinalSize     int `json:"finalSize"`
}

// CellRect returns the viewport-relative pixel rectangle of a module.
func (p RenderPlan) CellRect(row, col int) Rect {
	ms := float64(p.ModuleSize)
	return Rect{X: float64(col) * ms, Y: float64(row) * ms, W: ms, H: ms}
}

// ToSurface converts a viewport-relative rectangle to surface coordinates.
func (p RenderPlan) ToSurface(r Rect) Rect {
	m := float64(p.Margin)
	return r.Offset(m, m)
}

// =============================================================================
// Protect Stage Types
// =============================================================================

// ZoneKind classifies a module cell.
type ZoneKind int

const (
	// ZoneNone marks a stylizable cell.
	ZoneNone ZoneKind = iota
	// ZoneFinder marks the 8x8 finder corners, drawn by the eye renderer.
	ZoneFinder
	// ZoneTiming marks row 6 and column 6 when timing protection is on.
	ZoneTiming
	// ZoneAlignment marks the 5x5 box around an alignment center.
	ZoneAlignment
	// ZoneLogo marks cells under the logo plate. Nothing is painted there.
	ZoneLogo
)

// String returns the name of the zone kind.
func (k ZoneKind) String() string {
	switch k {
	case ZoneFinder:
		return "finder"
	case ZoneTiming:
		return "timing"
	case ZoneAlignment:
		return "alignment"
	case ZoneLogo:
		return "logo"
	default:
		return "none"
	}
}

// Protected reports whether the kind overrides stylistic scaling.
func (k ZoneKind) Protected() bool {
	return k != ZoneNone
}

// Zone is one protected rectangle. Module zones use module coordinates
// (X=col, Y=row); the logo zone uses viewport pixel coordinates.
type Zone struct {
	Kind  ZoneKind `json:"kind"`
	Rect  Rect     `json:"rect"`
	Pixel bool     `json:"pixel"`
}

// ProtectionPolicy selects which optional zones are protected.
type ProtectionPolicy struct {
	Timing    bool
	Alignment bool
}

// ProtectedRegion is the set of protected rectangles for one render call.
type ProtectedRegion interface {
	// Classify returns the zone kind of a cell. The logo zone wins over
	// structural zones because nothing is painted beneath the logo.
	Classify(row, col int) ZoneKind

	// RegisterLogo adds the logo protection rectangle in viewport pixels.
	RegisterLogo(r Rect)

	// LogoRegistered reports whether a logo rectangle was registered.
	LogoRegistered() bool

	// AlignmentCenters returns the (row, col) centers that received a zone.
	AlignmentCenters() [][2]int

	// Zones returns every registered rectangle.
	Zones() []Zone
}

// ProtectInput contains parameters for building the protected region.
type ProtectInput struct {
	Matrix ports.ModuleMatrix
	Plan   RenderPlan
	Policy ProtectionPolicy
}

// ProtectResult carries the protected region.
type ProtectResult struct {
	Region ProtectedRegion
}

// =============================================================================
// Pattern Stage Types
// =============================================================================

// EyeCorner identifies one of the three finder patterns.
type EyeCorner int

const (
	CornerTopLeft EyeCorner = iota
	CornerTopRight
	CornerBottomLeft
)

// EyeStyle configures finder eye rendering.
type EyeStyle struct {
	Color    color.Color
	Outer    image.Image // replaces the 7x7 ring when set
	Inner    image.Image // replaces the 3x3 center when set
	Rotation [3]float64  // degrees, indexed by EyeCorner
}

// PatternInput contains parameters for pattern rendering.
type PatternInput struct {
	Surface ports.Surface
	Matrix  ports.ModuleMatrix
	Plan    RenderPlan
	Region  ProtectedRegion
	Eyes    EyeStyle

	DarkColor           color.Color
	ProtectorColor      color.Color
	AlignmentMarkers    bool
	TimingReinforcement bool
}

// PatternResult reports what was drawn.
type PatternResult struct {
	Eyes             int
	AlignmentMarkers int
	TimingCells      int
}

// =============================================================================
// Background Stage Types
// =============================================================================

// BackgroundKind records which background source was used.
type BackgroundKind int

const (
	BackgroundSolid BackgroundKind = iota
	BackgroundGradient
	BackgroundImage
	BackgroundMaskedImage
)

// String returns the name of the background kind.
func (k BackgroundKind) String() string {
	switch k {
	case BackgroundGradient:
		return "gradient"
	case BackgroundImage:
		return "image"
	case BackgroundMaskedImage:
		return "masked-image"
	default:
		return "solid"
	}
}

// BackgroundInput contains parameters for background composition.
// Sources are evaluated in order: gradient, image, solid color.
type BackgroundInput struct {
	Size          int
	Color         color.Color
	Gradient      []ports.GradientStop
	Image         image.Image
	AutoColor     bool
	MaskedDots    bool
	MaskGrayscale bool
}

// BackgroundResult contains the background surface and side products.
type BackgroundResult struct {
	Surface ports.Surface
	Kind    BackgroundKind
	Mask    image.Image // masked-dot source, nil unless MaskedDots with an image
	Accent  color.Color // sampled color, nil unless AutoColor with an image
}

// =============================================================================
// Modules Stage Types
// =============================================================================

// ModuleStyle controls how non-structural modules are painted.
type ModuleStyle struct {
	DotScale   float64
	Block      BlockStyle
	Dark       color.Color
	Light      color.Color
	MaskedDots bool
	Mask       image.Image
}

// ModulesInput contains parameters for the module grid loop.
type ModulesInput struct {
	Surface ports.Surface
	Matrix  ports.ModuleMatrix
	Plan    RenderPlan
	Region  ProtectedRegion
	Style   ModuleStyle
}

// ModulesResult counts cells by treatment.
type ModulesResult struct {
	Stylized    int // dark cells painted inset
	FullSize    int // dark cells in timing or alignment zones
	MaskedLight int // light cells painted in masked-dot mode
	Suppressed  int // cells under the logo
	Deferred    int // finder cells left to the eye renderer
}

// =============================================================================
// Logo Stage Types
// =============================================================================

// LogoPlacement is the pure geometry of the logo overlay.
// Box and Plate are surface coordinates; Protection is the plate in
// viewport coordinates.
type LogoPlacement struct {
	Enabled      bool    `json:"enabled"`
	Scale        float64 `json:"scale"`
	Margin       float64 `json:"margin"`
	Size         float64 `json:"size"`
	Box          Rect    `json:"box"`
	CornerRadius float64 `json:"cornerRadius"`
	Plate        Rect    `json:"plate"`
	PlateRadius  float64 `json:"plateRadius"`
	Protection   Rect    `json:"protection"`

	HasBadge         bool    `json:"hasBadge"`
	Badge            Rect    `json:"badge"`
	BadgeRadius      float64 `json:"badgeRadius"`
	BadgePlate       Rect    `json:"badgePlate"`
	BadgePlateRadius float64 `json:"badgePlateRadius"`
}

// LogoInput contains parameters for drawing the logo overlay.
type LogoInput struct {
	Surface    ports.Surface
	Placement  LogoPlacement
	Logo       image.Image
	Badge      image.Image
	PlateColor color.Color
}

// LogoResult reports what was drawn.
type LogoResult struct {
	Drawn      bool
	BadgeDrawn bool
}

// =============================================================================
// Composite Stage Types
// =============================================================================

// CompositeOrder selects how the foreground meets the background.
type CompositeOrder int

const (
	// OrderBackdrop draws the foreground over the background.
	OrderBackdrop CompositeOrder = iota
	// OrderMaskFill keeps the background only where the foreground is
	// opaque, so modules take the background's colors.
	OrderMaskFill
)

// String returns the name of the order.
func (o CompositeOrder) String() string {
	if o == OrderMaskFill {
		return "mask-fill"
	}
	return "backdrop"
}

// CompositeInput contains the surfaces and parameters for final composition.
type CompositeInput struct {
	Foreground   ports.Surface
	Background   ports.Surface
	Order        CompositeOrder
	Logo         *LogoInput
	BorderRadius float64
	CardColor    color.Color
	OutputSize   int
}

// CompositeResult contains the final image at the requested size.
type CompositeResult struct {
	Image    *image.RGBA
	Combined *image.RGBA // full-resolution card before resampling
}

// =============================================================================
// Export Stage Types
// =============================================================================

// ExportInput contains parameters for encoding the final image.
type ExportInput struct {
	Image   image.Image
	Format  ports.ImageFormat
	Quality int
}

// ExportResult is the encoded final image.
type ExportResult struct {
	ports.Output
}
