// Package modules implements the module grid loop.
package modules

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
	"github.com/user/qrstyle/pkg/stages/protect"
)

// Overlays painted over the mask in masked-dot mode.
var (
	DarkOverlay  = color.NRGBA{A: 128}
	LightOverlay = color.NRGBA{R: 255, G: 255, B: 255, A: 179}
)

// Stage paints the data modules onto the foreground surface.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new modules stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("modules")}
}

// ValidDotScale reports whether s lies in (0, 1].
func ValidDotScale(s float64) bool {
	return s > 0 && s <= 1
}

// Execute walks the grid once. Finder cells are left to the eye renderer,
// cells under the logo are skipped, structural cells are painted at full
// size and the rest are inset by the dot scale.
func (s *Stage) Execute(ctx context.Context, input pipeline.ModulesInput) (pipeline.ModulesResult, error) {
	var result pipeline.ModulesResult

	style := input.Style
	if !ValidDotScale(style.DotScale) {
		return result, pipeline.ErrInvalidDotScale
	}
	if style.Dark == nil {
		style.Dark = color.Black
	}
	masked := style.MaskedDots && style.Mask != nil

	region := input.Region
	if region == nil {
		region = protect.NewClassifier(input.Matrix, input.Plan, pipeline.ProtectionPolicy{})
	}

	n := input.Matrix.ModuleCount()
	inset := (1 - style.DotScale) / 2 * float64(input.Plan.ModuleSize)

	for row := 0; row < n; row++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		for col := 0; col < n; col++ {
			dark := input.Matrix.IsDark(row, col)
			cell := input.Plan.ToSurface(input.Plan.CellRect(row, col))

			switch region.Classify(row, col) {
			case pipeline.ZoneLogo:
				result.Suppressed++
			case pipeline.ZoneFinder:
				result.Deferred++
			case pipeline.ZoneTiming, pipeline.ZoneAlignment:
				if dark {
					input.Surface.FillRect(cell, style.Dark, ports.BlendSourceOver)
					result.FullSize++
				}
			default:
				dot := cell.Inset(inset)
				switch {
				case masked:
					overlay := LightOverlay
					if dark {
						overlay = DarkOverlay
						result.Stylized++
					} else {
						result.MaskedLight++
					}
					paintMasked(input.Surface, style.Mask, dot, style.Block, overlay)
				case dark:
					paintDot(input.Surface, dot, style.Block, style.Dark)
					result.Stylized++
				}
			}
		}
	}

	s.logger.Debug("Modules: %d stylized, %d full size, %d suppressed",
		result.Stylized, result.FullSize, result.Suppressed)
	return result, nil
}

func paintDot(dst ports.Surface, r pipeline.Rect, block pipeline.BlockStyle, c color.Color) {
	if block == pipeline.BlockCircle {
		dst.FillCircle(r.X+r.W/2, r.Y+r.H/2, r.H/2, c, ports.BlendSourceOver)
		return
	}
	dst.FillRect(r, c, ports.BlendSourceOver)
}

// paintMasked blits the mask region under r and tints it with overlay.
// Circle blocks fill the inscribed circle from the mask directly.
func paintMasked(dst ports.Surface, mask image.Image, r pipeline.Rect, block pipeline.BlockStyle, overlay color.Color) {
	if block == pipeline.BlockCircle {
		cx, cy, radius := r.X+r.W/2, r.Y+r.H/2, r.H/2
		dst.FillCircleImage(cx, cy, radius, mask, ports.BlendSourceOver)
		dst.FillCircle(cx, cy, radius, overlay, ports.BlendSourceOver)
		return
	}
	dst.DrawImage(region(mask, r), r, ports.BlendSourceOver)
	dst.FillRect(r, overlay, ports.BlendSourceOver)
}

// region returns the part of img under r. Sub-images share pixels when the
// image supports it.
func region(img image.Image, r pipeline.Rect) image.Image {
	b := img.Bounds()
	rect := image.Rect(
		b.Min.X+int(r.X), b.Min.Y+int(r.Y),
		b.Min.X+int(r.Right()+0.5), b.Min.Y+int(r.Bottom()+0.5),
	).Intersect(b)
	if rect.Empty() {
		return img
	}
	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}
	return imaging.Crop(img, rect)
}
