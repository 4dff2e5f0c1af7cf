// Package background implements the background composition stage.
package background

import (
	"context"
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
)

// Sampling constants for AverageColor.
const (
	sampleStride    = 5   // pixels between samples
	sampleOffset    = 4   // index of the first sampled pixel
	nearWhiteCutoff = 200 // channel value above which a pixel is skipped
)

// Stage fills the background surface.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new background stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("background"),
	}
}

// Execute builds the background from a gradient, an image or a solid
// color, in that order of priority.
func (s *Stage) Execute(ctx context.Context, input pipeline.BackgroundInput) (pipeline.BackgroundResult, error) {
	size := input.Size
	if size < 1 {
		size = 1
	}
	full := pipeline.Rect{W: float64(size), H: float64(size)}

	var result pipeline.BackgroundResult
	switch {
	case len(input.Gradient) > 0:
		result.Kind = pipeline.BackgroundGradient
		result.Surface = s.renderer.CreateSurface(size, size, nil)
		result.Surface.FillGradient(full, Gradient(input.Gradient, float64(size)), ports.BlendSourceOver)

	case input.Image != nil:
		fitted := imaging.Fill(input.Image, size, size, imaging.Center, imaging.Lanczos)
		if input.AutoColor {
			accent := AverageColor(fitted)
			result.Accent = accent
			s.logger.Debug("Sampled accent color #%02x%02x%02x", accent.R, accent.G, accent.B)
		}
		if input.MaskedDots {
			result.Kind = pipeline.BackgroundMaskedImage
			result.Surface = s.renderer.CreateSurface(size, size, color.White)
			if input.MaskGrayscale {
				result.Mask = imaging.Grayscale(fitted)
			} else {
				result.Mask = fitted
			}
		} else {
			result.Kind = pipeline.BackgroundImage
			result.Surface = s.renderer.CreateSurface(size, size, nil)
			result.Surface.DrawImage(fitted, full, ports.BlendSourceOver)
		}

	default:
		bg := input.Color
		if bg == nil {
			bg = color.White
		}
		result.Kind = pipeline.BackgroundSolid
		result.Surface = s.renderer.CreateSurface(size, size, bg)
	}

	s.logger.Debug("Background: %s", result.Kind)
	return result, nil
}

// Gradient builds a diagonal linear gradient across a square of the given
// side. Offsets are clamped to [0, 1] and stops are ordered by offset.
func Gradient(stops []ports.GradientStop, side float64) ports.LinearGradient {
	sorted := make([]ports.GradientStop, len(stops))
	for i, st := range stops {
		st.Offset = min(max(st.Offset, 0), 1)
		if st.Color == nil {
			st.Color = color.Transparent
		}
		sorted[i] = st
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return ports.LinearGradient{X0: 0, Y0: 0, X1: side, Y1: side, Stops: sorted}
}

// AverageColor samples every fifth pixel, skipping transparent pixels and
// pixels whose red, green or blue channel exceeds 200, and returns the
// integer mean of the rest. It returns opaque black when nothing qualifies.
func AverageColor(img image.Image) color.RGBA {
	black := color.RGBA{A: 255}
	if img == nil || img.Bounds().Empty() {
		return black
	}

	var nrgba *image.NRGBA
	if n, ok := img.(*image.NRGBA); ok {
		nrgba = n
	} else {
		nrgba = imaging.Clone(img)
	}

	b := nrgba.Bounds()
	w := b.Dx()
	total := w * b.Dy()

	var r, g, bl, count int
	for p := sampleOffset; p < total; p += sampleStride {
		i := nrgba.PixOffset(b.Min.X+p%w, b.Min.Y+p/w)
		px := nrgba.Pix[i : i+4 : i+4]
		if px[3] == 0 {
			continue
		}
		if px[0] > nearWhiteCutoff || px[1] > nearWhiteCutoff || px[2] > nearWhiteCutoff {
			continue
		}
		r += int(px[0])
		g += int(px[1])
		bl += int(px[2])
		count++
	}

	if count == 0 {
		return black
	}
	return color.RGBA{R: uint8(r / count), G: uint8(g / count), B: uint8(bl / count), A: 255}
}
