// Package pattern implements the finder eye, alignment marker and timing
// renderers.
package pattern

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
)

// eyeSpan is the side of a finder pattern in modules.
const eyeSpan = 7

// DefaultProtectorColor is the semi-transparent white painted over an
// alignment zone before its marker is drawn.
var DefaultProtectorColor = color.NRGBA{R: 255, G: 255, B: 255, A: 153}

// Stage draws structural patterns onto the foreground surface.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new pattern stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("pattern"),
	}
}

// Execute draws the eyes, then the optional alignment markers and timing
// reinforcement.
func (s *Stage) Execute(ctx context.Context, input pipeline.PatternInput) (pipeline.PatternResult, error) {
	var result pipeline.PatternResult

	dark := input.DarkColor
	if dark == nil {
		dark = color.Black
	}
	eyes := input.Eyes
	if eyes.Color == nil {
		eyes.Color = dark
	}

	var scratch ports.Surface
	if eyes.Outer != nil || eyes.Inner != nil {
		scratch = s.renderer.CreateSurface(input.Surface.Width(), input.Surface.Height(), nil)
	}
	for _, corner := range []pipeline.EyeCorner{pipeline.CornerTopLeft, pipeline.CornerTopRight, pipeline.CornerBottomLeft} {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		box := EyeBox(input.Plan, corner)
		drawEye(input.Surface, scratch, box, float64(input.Plan.ModuleSize), eyes, NormalizeRotation(eyes.Rotation[corner]))
		result.Eyes++
	}

	if input.AlignmentMarkers && input.Region != nil {
		protector := input.ProtectorColor
		if protector == nil {
			protector = DefaultProtectorColor
		}
		for _, c := range input.Region.AlignmentCenters() {
			if markerUnderLogo(input.Region, c[0], c[1]) {
				continue
			}
			drawAlignmentMarker(input.Surface, input.Plan, c[0], c[1], dark, protector)
			result.AlignmentMarkers++
		}
	}

	if input.TimingReinforcement {
		result.TimingCells = drawTiming(input.Surface, input.Matrix, input.Plan, input.Region, dark)
	}

	s.logger.Debug("Drew %d eyes, %d alignment markers, %d timing cells",
		result.Eyes, result.AlignmentMarkers, result.TimingCells)
	return result, nil
}

// EyeBox returns the surface rectangle of a finder pattern.
func EyeBox(plan pipeline.RenderPlan, corner pipeline.EyeCorner) pipeline.Rect {
	row, col := 0, 0
	switch corner {
	case pipeline.CornerTopRight:
		col = plan.ModuleCount - eyeSpan
	case pipeline.CornerBottomLeft:
		row = plan.ModuleCount - eyeSpan
	}
	ms := float64(plan.ModuleSize)
	return plan.ToSurface(pipeline.Rect{
		X: float64(col) * ms,
		Y: float64(row) * ms,
		W: eyeSpan * ms,
		H: eyeSpan * ms,
	})
}

// NormalizeRotation maps degrees into [0, 360). Non-finite values become 0.
func NormalizeRotation(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// drawEye paints one finder pattern. The procedural eye is a 7-module
// rounded square with a 5-module hole cut by xor and a 3-module center.
// Custom images replace the ring or the center and are recolored through
// the scratch surface.
func drawEye(dst, scratch ports.Surface, box pipeline.Rect, ms float64, style pipeline.EyeStyle, rotation float64) {
	if style.Outer != nil {
		drawTinted(dst, scratch, style.Outer, box, rotation, style.Color)
	} else {
		dst.FillRoundedRect(box, 2*ms, style.Color, ports.BlendSourceOver)
		dst.FillRoundedRect(box.Inset(ms), ms, style.Color, ports.BlendXor)
	}

	center := box.Inset(2 * ms)
	if style.Inner != nil {
		drawTinted(dst, scratch, style.Inner, center, rotation, style.Color)
	} else {
		dst.FillRoundedRect(center, ms/2, style.Color, ports.BlendSourceOver)
	}
}

// drawTinted blits img into box on a cleared scratch surface, fills the
// opaque pixels with c and composites the result onto dst.
func drawTinted(dst, scratch ports.Surface, img image.Image, box pipeline.Rect, rotation float64, c color.Color) {
	scratch.Clear()
	scratch.DrawImageRotated(img, box, rotation, ports.BlendSourceOver)
	scratch.FillRect(box, c, ports.BlendSourceIn)
	dst.Composite(scratch, ports.BlendSourceOver)
}

// drawAlignmentMarker clears the 5x5 zone with the protector fill, then
// draws a one-module square ring and the center dot.
func drawAlignmentMarker(dst ports.Surface, plan pipeline.RenderPlan, row, col int, dark, protector color.Color) {
	ms := float64(plan.ModuleSize)
	zone := plan.ToSurface(pipeline.Rect{
		X: float64(col-2) * ms,
		Y: float64(row-2) * ms,
		W: 5 * ms,
		H: 5 * ms,
	})
	dst.FillRect(zone, protector, ports.BlendSourceOver)

	// top, bottom, left, right
	dst.FillRect(pipeline.Rect{X: zone.X, Y: zone.Y, W: 5 * ms, H: ms}, dark, ports.BlendSourceOver)
	dst.FillRect(pipeline.Rect{X: zone.X, Y: zone.Y + 4*ms, W: 5 * ms, H: ms}, dark, ports.BlendSourceOver)
	dst.FillRect(pipeline.Rect{X: zone.X, Y: zone.Y + ms, W: ms, H: 3 * ms}, dark, ports.BlendSourceOver)
	dst.FillRect(pipeline.Rect{X: zone.X + 4*ms, Y: zone.Y + ms, W: ms, H: 3 * ms}, dark, ports.BlendSourceOver)

	dst.FillRect(zone.Inset(2*ms), dark, ports.BlendSourceOver)
}

// markerUnderLogo reports whether any cell of the 5x5 marker box around
// row, col touches the logo zone.
func markerUnderLogo(region pipeline.ProtectedRegion, row, col int) bool {
	for r := row - 2; r <= row+2; r++ {
		for c := col - 2; c <= col+2; c++ {
			if region.Classify(r, c) == pipeline.ZoneLogo {
				return true
			}
		}
	}
	return false
}

// drawTiming repaints the dark timing cells between the finders at full
// size. Cells under the logo are skipped.
func drawTiming(dst ports.Surface, matrix ports.ModuleMatrix, plan pipeline.RenderPlan, region pipeline.ProtectedRegion, dark color.Color) int {
	n := matrix.ModuleCount()
	painted := 0
	paint := func(row, col int) {
		if !matrix.IsDark(row, col) {
			return
		}
		if region != nil && region.Classify(row, col) == pipeline.ZoneLogo {
			return
		}
		dst.FillRect(plan.ToSurface(plan.CellRect(row, col)), dark, ports.BlendSourceOver)
		painted++
	}
	for i := eyeSpan + 1; i < n-eyeSpan-1; i++ {
		paint(6, i)
		paint(i, 6)
	}
	return painted
}
