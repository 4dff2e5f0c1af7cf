package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/qrstyle/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
// Without overrides it hands out recording Surfaces and counts them.
type Renderer struct {
	CreateSurfaceFunc func(width, height int, bg color.Color) ports.Surface
	DecodeImageFunc   func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc   func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc   func(img image.Image, width, height int) image.Image

	mu       sync.Mutex
	Surfaces []*Surface
}

func (m *Renderer) CreateSurface(width, height int, bg color.Color) ports.Surface {
	if m.CreateSurfaceFunc != nil {
		return m.CreateSurfaceFunc(width, height, bg)
	}
	s := NewSurface(width, height)
	m.mu.Lock()
	m.Surfaces = append(m.Surfaces, s)
	m.mu.Unlock()
	return s
}

// SurfaceCount returns how many surfaces were created.
func (m *Renderer) SurfaceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Surfaces)
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// Op is one recorded surface call.
type Op struct {
	Kind    string // "rect", "rounded", "circle", "gradient", "image", "composite", "clip"
	Rect    ports.Rect
	Color   color.Color
	Mode    ports.BlendMode
	Radius  float64
	Degrees float64
	Image   image.Image
}

// Surface is a recording implementation of ports.Surface.
// It draws nothing; every call is appended to Ops.
type Surface struct {
	width  int
	height int
	img    *image.RGBA
	depth  int

	Ops []Op
}

// NewSurface creates a recording surface.
func NewSurface(width, height int) *Surface {
	return &Surface{width: width, height: height}
}

func (m *Surface) Width() int  { return m.width }
func (m *Surface) Height() int { return m.height }

func (m *Surface) FillRect(r ports.Rect, c color.Color, mode ports.BlendMode) {
	m.Ops = append(m.Ops, Op{Kind: "rect", Rect: r, Color: c, Mode: mode})
}

func (m *Surface) FillRoundedRect(r ports.Rect, radius float64, c color.Color, mode ports.BlendMode) {
	m.Ops = append(m.Ops, Op{Kind: "rounded", Rect: r, Color: c, Mode: mode, Radius: radius})
}

func (m *Surface) FillCircle(cx, cy, radius float64, c color.Color, mode ports.BlendMode) {
	m.Ops = append(m.Ops, Op{
		Kind:   "circle",
		Rect:   ports.Rect{X: cx - radius, Y: cy - radius, W: 2 * radius, H: 2 * radius},
		Color:  c,
		Mode:   mode,
		Radius: radius,
	})
}

func (m *Surface) FillCircleImage(cx, cy, radius float64, img image.Image, mode ports.BlendMode) {
	m.Ops = append(m.Ops, Op{
		Kind:   "circle-image",
		Rect:   ports.Rect{X: cx - radius, Y: cy - radius, W: 2 * radius, H: 2 * radius},
		Mode:   mode,
		Radius: radius,
		Image:  img,
	})
}

func (m *Surface) FillGradient(r ports.Rect, g ports.LinearGradient, mode ports.BlendMode) {
	m.Ops = append(m.Ops, Op{Kind: "gradient", Rect: r, Mode: mode})
}

func (m *Surface) DrawImage(img image.Image, dst ports.Rect, mode ports.BlendMode) {
	m.Ops = append(m.Ops, Op{Kind: "image", Rect: dst, Mode: mode, Image: img})
}

func (m *Surface) DrawImageRotated(img image.Image, dst ports.Rect, degrees float64, mode ports.BlendMode) {
	m.Ops = append(m.Ops, Op{Kind: "image", Rect: dst, Mode: mode, Image: img, Degrees: degrees})
}

func (m *Surface) Composite(src ports.Surface, mode ports.BlendMode) {
	m.Ops = append(m.Ops, Op{
		Kind: "composite",
		Rect: ports.Rect{W: float64(src.Width()), H: float64(src.Height())},
		Mode: mode,
	})
}

func (m *Surface) ClipRoundedRect(r ports.Rect, radius float64) {
	m.Ops = append(m.Ops, Op{Kind: "clip", Rect: r, Radius: radius})
}

func (m *Surface) Save()    { m.depth++ }
func (m *Surface) Restore() { m.depth-- }

// Depth returns the Save/Restore nesting depth; balanced drawing leaves 0.
func (m *Surface) Depth() int { return m.depth }

func (m *Surface) Clear() {
	m.Ops = nil
}

func (m *Surface) Image() *image.RGBA {
	if m.img == nil {
		m.img = image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	}
	return m.img
}

// OpsOfKind returns the recorded calls of one kind.
func (m *Surface) OpsOfKind(kind string) []Op {
	var out []Op
	for _, op := range m.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

var _ ports.Surface = (*Surface)(nil)
