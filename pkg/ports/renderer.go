package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts surface creation and image processing operations.
type Renderer interface {
	// CreateSurface creates a new drawing surface with the specified dimensions.
	// A nil background leaves the surface fully transparent.
	CreateSurface(width, height int, bg color.Color) Surface

	// DecodeImage decodes image data into an image.Image.
	DecodeImage(data []byte, format ImageFormat) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Surface is an owned drawing target. Every fill and blit takes an explicit
// BlendMode so the result does not depend on a host default.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// FillRect fills an axis-aligned rectangle.
	FillRect(r Rect, c color.Color, mode BlendMode)

	// FillRoundedRect fills a rectangle with rounded corners of the given radius.
	FillRoundedRect(r Rect, radius float64, c color.Color, mode BlendMode)

	// FillCircle fills a circle.
	FillCircle(cx, cy, radius float64, c color.Color, mode BlendMode)

	// FillCircleImage fills a circle with the pixels of img at the same
	// surface coordinates. img is not scaled.
	FillCircleImage(cx, cy, radius float64, img image.Image, mode BlendMode)

	// FillGradient fills a rectangle with a linear gradient.
	FillGradient(r Rect, g LinearGradient, mode BlendMode)

	// DrawImage blits img scaled into dst.
	DrawImage(img image.Image, dst Rect, mode BlendMode)

	// DrawImageRotated blits img scaled into dst, rotated about the center of dst.
	DrawImageRotated(img image.Image, dst Rect, degrees float64, mode BlendMode)

	// Composite blends the full content of src onto this surface.
	// src must have the same dimensions.
	Composite(src Surface, mode BlendMode)

	// ClipRoundedRect intersects the current clip with a rounded rectangle.
	ClipRoundedRect(r Rect, radius float64)

	// Save pushes the clip state.
	Save()

	// Restore pops the clip state pushed by the last Save.
	Restore()

	// Clear makes every pixel fully transparent and resets the clip.
	Clear()

	// Image returns the current pixels.
	Image() *image.RGBA
}

// Rect is an axis-aligned rectangle in pixel space.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Intersects reports whether r and o share interior area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Inset shrinks the rectangle by d on each side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Offset translates the rectangle.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// BlendMode selects the Porter-Duff operator used when drawing onto a surface.
// In the formulas below s is the incoming (premultiplied) source, d the
// existing destination, and as/ad their alphas.
type BlendMode int

const (
	// BlendSourceOver: s + d*(1-as).
	BlendSourceOver BlendMode = iota
	// BlendDestinationIn: d*as. Pixels not covered by the source are cleared.
	BlendDestinationIn
	// BlendDestinationOver: s*(1-ad) + d. Draws behind existing content.
	BlendDestinationOver
	// BlendXor: s*(1-ad) + d*(1-as). Overlaps cancel out.
	BlendXor
	// BlendSourceIn: s*ad. Paints only where the destination is opaque.
	BlendSourceIn
)

// String returns the canvas-style name of the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendSourceOver:
		return "source-over"
	case BlendDestinationIn:
		return "destination-in"
	case BlendDestinationOver:
		return "destination-over"
	case BlendXor:
		return "xor"
	case BlendSourceIn:
		return "source-in"
	default:
		return "unknown"
	}
}

// GradientStop is a color at a relative offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  color.Color
}

// LinearGradient runs from (X0, Y0) to (X1, Y1).
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []GradientStop
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatAuto ImageFormat = iota
	FormatPNG
	FormatJPEG
	FormatSVG
)

// String returns the lowercase name of the format.
func (f ImageFormat) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatSVG:
		return "svg"
	default:
		return "auto"
	}
}

// ParseImageFormat parses a format name. Unknown names map to FormatPNG.
func ParseImageFormat(s string) ImageFormat {
	switch s {
	case "jpeg", "jpg":
		return FormatJPEG
	case "svg":
		return FormatSVG
	case "auto":
		return FormatAuto
	default:
		return FormatPNG
	}
}
