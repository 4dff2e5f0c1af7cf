// Package composite implements the final composition stage.
package composite

import (
	"context"
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
)

// opaque is the stencil used to cut the card corners.
var opaque = color.RGBA{A: 255}

// LogoStage is the overlay drawn onto the combined surface.
type LogoStage = pipeline.Stage[pipeline.LogoInput, pipeline.LogoResult]

// Stage merges the foreground and background into the final card.
type Stage struct {
	renderer ports.Renderer
	logo     LogoStage
	sink     ports.DebugSink
	logger   ports.Logger
}

// NewStage creates a new composite stage.
func NewStage(renderer ports.Renderer, logo LogoStage, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logo:     logo,
		sink:     sink,
		logger:   logger.WithComponent("composite"),
	}
}

// Execute composes the layers:
//
//	background -> foreground (backdrop or mask-fill) -> logo -> card -> resample
func (s *Stage) Execute(ctx context.Context, input pipeline.CompositeInput) (pipeline.CompositeResult, error) {
	fg, bg := input.Foreground, input.Background
	if fg == nil || bg == nil {
		return pipeline.CompositeResult{}, fmt.Errorf("missing foreground or background surface")
	}
	w, h := bg.Width(), bg.Height()

	if s.sink.Enabled() {
		s.saveLayer("foreground", fg.Image())
		s.saveLayer("background", bg.Image())
	}

	final := s.renderer.CreateSurface(w, h, nil)
	final.Composite(bg, ports.BlendSourceOver)
	if input.Order == pipeline.OrderMaskFill {
		final.Composite(fg, ports.BlendDestinationIn)
	} else {
		final.Composite(fg, ports.BlendSourceOver)
	}

	if input.Logo != nil {
		logoInput := *input.Logo
		logoInput.Surface = final
		if _, err := s.logo.Execute(ctx, logoInput); err != nil {
			return pipeline.CompositeResult{}, fmt.Errorf("logo overlay: %w", err)
		}
	}

	applyCard(final, input.BorderRadius, input.CardColor)

	combined := final.Image()
	if s.sink.Enabled() {
		s.saveLayer("combined", combined)
	}

	out := combined
	size := input.OutputSize
	if size > 0 && (size != w || size != h) {
		out = toRGBA(s.renderer.ResizeImage(combined, size, size))
	}

	s.logger.Debug("Composite order: %s, resampling %d -> %d", input.Order, w, out.Bounds().Dx())
	return pipeline.CompositeResult{Image: out, Combined: combined}, nil
}

// applyCard paints the card color behind everything and cuts the corners.
func applyCard(dst ports.Surface, radius float64, card color.Color) {
	if card == nil {
		card = color.White
	}
	if radius < 0 {
		radius = 0
	}
	full := pipeline.Rect{W: float64(dst.Width()), H: float64(dst.Height())}
	dst.FillRoundedRect(full, radius, card, ports.BlendDestinationOver)
	if radius > 0 {
		dst.FillRoundedRect(full, radius, opaque, ports.BlendDestinationIn)
	}
}

func (s *Stage) saveLayer(name string, img image.Image) {
	if err := s.sink.SaveLayer(name, img); err != nil {
		s.logger.Warn("Failed to write debug output: %s", err.Error())
	}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(out, out.Bounds(), img, b.Min, xdraw.Src)
	return out
}
