// Package logo implements logo placement and the logo overlay stage.
package logo

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
)

// Placement defaults and ratios.
const (
	DefaultScale = 0.2

	// AutoCornerRadius selects a circular clip (half the logo size).
	AutoCornerRadius = -1.0

	badgeRatio       = 0.35 // badge side relative to the logo side
	badgeMarginRatio = 0.12 // badge plate margin relative to the badge side
)

// Options are the user-facing logo parameters.
type Options struct {
	Scale        float64 // fraction of the viewport, (0, 1)
	Margin       float64 // plate margin in pixels, >= 0
	CornerRadius float64 // clip radius in pixels; negative selects AutoCornerRadius
	Badge        bool    // whether a service badge is drawn
}

// ComputePlacement derives the logo geometry for a plan. Out-of-range
// options fall back to their defaults.
func ComputePlacement(plan pipeline.RenderPlan, opts Options) pipeline.LogoPlacement {
	scale := opts.Scale
	if !(scale > 0 && scale < 1) {
		scale = DefaultScale
	}
	margin := opts.Margin
	if !(margin >= 0) || math.IsInf(margin, 0) {
		margin = 0
	}

	viewport := float64(plan.ViewportSize)
	size := viewport * scale
	origin := float64(plan.Margin) + (viewport-size)/2
	box := pipeline.Rect{X: origin, Y: origin, W: size, H: size}

	radius := opts.CornerRadius
	if !(radius >= 0) || radius > size/2 {
		radius = size / 2
	}

	plate := box.Inset(-margin)
	p := pipeline.LogoPlacement{
		Enabled:      true,
		Scale:        scale,
		Margin:       margin,
		Size:         size,
		Box:          box,
		CornerRadius: radius,
		Plate:        plate,
		PlateRadius:  math.Min(radius+margin, plate.W/2),
		Protection:   plate.Offset(-float64(plan.Margin), -float64(plan.Margin)),
	}

	if opts.Badge {
		bs := size * badgeRatio
		badge := pipeline.Rect{X: box.Right() - bs, Y: box.Bottom() - bs, W: bs, H: bs}
		badgePlate := badge.Inset(-bs * badgeMarginRatio)
		p.HasBadge = true
		p.Badge = badge
		p.BadgeRadius = bs / 2
		p.BadgePlate = badgePlate
		p.BadgePlateRadius = badgePlate.W / 2
	}
	return p
}

// Stage draws the logo overlay onto the combined surface.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new logo stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("logo")}
}

// Execute paints the backing plate, the clipped logo and the optional badge.
func (s *Stage) Execute(ctx context.Context, input pipeline.LogoInput) (pipeline.LogoResult, error) {
	var result pipeline.LogoResult
	p := input.Placement
	if !p.Enabled || input.Logo == nil {
		return result, nil
	}
	plateColor := input.PlateColor
	if plateColor == nil {
		plateColor = color.White
	}

	drawClipped(input.Surface, squared(input.Logo), p.Plate, p.PlateRadius, p.Box, p.CornerRadius, plateColor)
	result.Drawn = true
	s.logger.Debug("Logo placed at %.1f,%.1f size %.1f", p.Box.X, p.Box.Y, p.Size)

	if p.HasBadge && input.Badge != nil {
		drawClipped(input.Surface, squared(input.Badge), p.BadgePlate, p.BadgePlateRadius, p.Badge, p.BadgeRadius, plateColor)
		result.BadgeDrawn = true
	}
	return result, nil
}

func drawClipped(dst ports.Surface, img image.Image, plate pipeline.Rect, plateRadius float64, box pipeline.Rect, radius float64, plateColor color.Color) {
	dst.FillRoundedRect(plate, plateRadius, plateColor, ports.BlendSourceOver)

	dst.Save()
	defer dst.Restore()
	dst.ClipRoundedRect(box, radius)
	dst.DrawImage(img, box, ports.BlendSourceOver)
}

// squared crops a non-square image to its centered square so it is not
// stretched into the box.
func squared(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == b.Dy() {
		return img
	}
	side := min(b.Dx(), b.Dy())
	return imaging.Fill(img, side, side, imaging.Center, imaging.Lanczos)
}
