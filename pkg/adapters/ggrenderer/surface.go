package ggrenderer

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/user/qrstyle/pkg/ports"
)

// Surface implements ports.Surface using gg.Context.
//
// Source-over drawing goes straight through gg. Every other blend mode
// rasterizes the shape onto a transparent scratch context first and then
// combines it with the surface pixels through compose.
type Surface struct {
	dc    *gg.Context
	clip  *image.Alpha
	saved []*image.Alpha
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.dc.Width() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.dc.Height() }

// FillRect fills an axis-aligned rectangle.
func (s *Surface) FillRect(r ports.Rect, c color.Color, mode ports.BlendMode) {
	s.paint(mode, func(dc *gg.Context) {
		dc.SetColor(c)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.Fill()
	})
}

// FillRoundedRect fills a rounded rectangle. The radius is clamped to half
// of the shorter side.
func (s *Surface) FillRoundedRect(r ports.Rect, radius float64, c color.Color, mode ports.BlendMode) {
	s.paint(mode, func(dc *gg.Context) {
		dc.SetColor(c)
		roundedRectPath(dc, r, radius)
		dc.Fill()
	})
}

// FillCircle fills a circle.
func (s *Surface) FillCircle(cx, cy, radius float64, c color.Color, mode ports.BlendMode) {
	s.paint(mode, func(dc *gg.Context) {
		dc.SetColor(c)
		dc.DrawCircle(cx, cy, radius)
		dc.Fill()
	})
}

// FillCircleImage fills a circle with img through a non-repeating surface
// pattern, so only the pixels inside the circle are sampled.
func (s *Surface) FillCircleImage(cx, cy, radius float64, img image.Image, mode ports.BlendMode) {
	if img.Bounds().Empty() {
		return
	}
	s.paint(mode, func(dc *gg.Context) {
		dc.Push()
		defer dc.Pop()

		dc.SetFillStyle(gg.NewSurfacePattern(img, gg.RepeatNone))
		dc.DrawCircle(cx, cy, radius)
		dc.Fill()
	})
}

// FillGradient fills a rectangle with a linear gradient.
func (s *Surface) FillGradient(r ports.Rect, g ports.LinearGradient, mode ports.BlendMode) {
	s.paint(mode, func(dc *gg.Context) {
		grad := gg.NewLinearGradient(g.X0, g.Y0, g.X1, g.Y1)
		for _, stop := range g.Stops {
			grad.AddColorStop(stop.Offset, stop.Color)
		}
		dc.SetFillStyle(grad)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.Fill()
	})
}

// DrawImage blits img scaled into dst.
func (s *Surface) DrawImage(img image.Image, dst ports.Rect, mode ports.BlendMode) {
	s.DrawImageRotated(img, dst, 0, mode)
}

// DrawImageRotated blits img scaled into dst and rotated about its center.
// The transform is pushed and popped so later drawing is unaffected.
func (s *Surface) DrawImageRotated(img image.Image, dst ports.Rect, degrees float64, mode ports.BlendMode) {
	b := img.Bounds()
	if b.Empty() || dst.W <= 0 || dst.H <= 0 {
		return
	}
	s.paint(mode, func(dc *gg.Context) {
		dc.Push()
		defer dc.Pop()

		if degrees != 0 {
			dc.RotateAbout(gg.Radians(degrees), dst.X+dst.W/2, dst.Y+dst.H/2)
		}
		dc.Translate(dst.X, dst.Y)
		dc.Scale(dst.W/float64(b.Dx()), dst.H/float64(b.Dy()))
		dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	})
}

// Composite blends the content of src onto this surface.
func (s *Surface) Composite(src ports.Surface, mode ports.BlendMode) {
	compose(s.rgba(), src.Image(), s.clip, mode)
}

// ClipRoundedRect intersects the clip with a rounded rectangle.
func (s *Surface) ClipRoundedRect(r ports.Rect, radius float64) {
	mc := gg.NewContext(s.Width(), s.Height())
	roundedRectPath(mc, r, radius)
	mc.SetColor(color.White)
	mc.Fill()
	mask := mc.AsMask()

	if s.clip != nil {
		for i := range mask.Pix {
			mask.Pix[i] = uint8(uint32(mask.Pix[i]) * uint32(s.clip.Pix[i]) / 255)
		}
	}
	s.setClip(mask)
}

// Save pushes the clip state.
func (s *Surface) Save() {
	s.saved = append(s.saved, s.clip)
}

// Restore pops the clip state pushed by the last Save.
func (s *Surface) Restore() {
	if len(s.saved) == 0 {
		return
	}
	last := s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	s.setClip(last)
}

// Clear makes every pixel transparent and resets the clip.
func (s *Surface) Clear() {
	s.saved = nil
	s.setClip(nil)
	s.dc.SetColor(color.Transparent)
	s.dc.Clear()
}

// Image returns the surface pixels.
func (s *Surface) Image() *image.RGBA {
	return s.rgba()
}

func (s *Surface) rgba() *image.RGBA {
	return s.dc.Image().(*image.RGBA)
}

func (s *Surface) setClip(mask *image.Alpha) {
	s.clip = mask
	if mask == nil {
		s.dc.ResetClip()
		return
	}
	// Sizes always match: the mask is built from this surface's dimensions.
	_ = s.dc.SetMask(mask)
}

// paint runs draw on the surface directly for source-over, or on a scratch
// context that is then composed with the requested mode.
func (s *Surface) paint(mode ports.BlendMode, draw func(dc *gg.Context)) {
	if mode == ports.BlendSourceOver {
		draw(s.dc)
		return
	}
	scratch := gg.NewContext(s.Width(), s.Height())
	draw(scratch)
	compose(s.rgba(), scratch.Image().(*image.RGBA), s.clip, mode)
}

func roundedRectPath(dc *gg.Context, r ports.Rect, radius float64) {
	radius = math.Min(radius, math.Min(r.W, r.H)/2)
	if radius <= 0 {
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		return
	}
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
