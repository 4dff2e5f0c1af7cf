// Package orchestrator coordinates all render stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"

	"github.com/ideamans/go-l10n"

	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
	"github.com/user/qrstyle/pkg/stages/logo"
)

// Config contains all configuration for one render call.
type Config struct {
	// Geometry
	Size         int
	Margin       int
	BorderRadius float64
	Sizing       pipeline.SizingPolicy

	// Structure
	Protection          pipeline.ProtectionPolicy
	AlignmentMarkers    bool
	TimingReinforcement bool
	Order               pipeline.CompositeOrder

	// Modules
	DotScale   float64
	Block      pipeline.BlockStyle
	DarkColor  color.Color
	LightColor color.Color
	EyeColor   color.Color // defaults to DarkColor

	// Background
	BackgroundColor color.Color // defaults to LightColor
	Gradient        []ports.GradientStop
	BackgroundImage image.Image
	AutoColor       bool
	MaskedDots      bool
	MaskGrayscale   bool
	CardColor       color.Color

	// Logo
	Logo             image.Image
	LogoScale        float64
	LogoMargin       float64
	LogoCornerRadius float64
	LogoBadge        image.Image

	// Eyes
	OuterEye    image.Image
	InnerEye    image.Image
	EyeRotation [3]float64

	// Export
	Format  ports.ImageFormat
	Quality int
	Outputs []ports.OutputSink
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Size:         320,
		Margin:       20,
		BorderRadius: 20,
		Protection:   pipeline.ProtectionPolicy{Alignment: true},
		Order:        pipeline.OrderMaskFill,

		DotScale:   0.35,
		DarkColor:  color.Black,
		LightColor: color.White,
		AutoColor:  true,
		CardColor:  color.White,

		LogoScale:        logo.DefaultScale,
		LogoCornerRadius: logo.AutoCornerRadius,

		Format: ports.FormatPNG,
	}
}

// Result is the outcome of a render call.
type Result struct {
	ports.Output

	Plan       pipeline.RenderPlan
	Zones      []pipeline.Zone
	Logo       pipeline.LogoPlacement
	Background pipeline.BackgroundKind
	Order      pipeline.CompositeOrder
	Modules    pipeline.ModulesResult
	Patterns   pipeline.PatternResult
}

// Stages groups the stages of a render.
type Stages struct {
	Plan       pipeline.Stage[pipeline.PlanInput, pipeline.RenderPlan]
	Protect    pipeline.Stage[pipeline.ProtectInput, pipeline.ProtectResult]
	Background pipeline.Stage[pipeline.BackgroundInput, pipeline.BackgroundResult]
	Modules    pipeline.Stage[pipeline.ModulesInput, pipeline.ModulesResult]
	Pattern    pipeline.Stage[pipeline.PatternInput, pipeline.PatternResult]
	Composite  pipeline.Stage[pipeline.CompositeInput, pipeline.CompositeResult]
	Export     pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
}

// Orchestrator runs render calls and keeps the last exposed output.
// It is single-owner: callers serialize Render, Clear and Last.
type Orchestrator struct {
	stages   Stages
	renderer ports.Renderer
	sink     ports.DebugSink
	logger   ports.Logger

	last *Result
}

// New creates a new Orchestrator.
func New(stages Stages, renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger) *Orchestrator {
	return &Orchestrator{
		stages:   stages,
		renderer: renderer,
		sink:     sink,
		logger:   logger,
	}
}

// Render paints matrix with config. An invalid dot scale aborts before any
// surface is created. Output sinks run last; their failures are logged and
// do not affect the result.
func (o *Orchestrator) Render(ctx context.Context, matrix ports.ModuleMatrix, config Config) (Result, error) {
	if matrix == nil {
		return Result{}, fmt.Errorf("no module matrix")
	}
	if !(config.DotScale > 0 && config.DotScale <= 1) {
		o.logger.Error(l10n.F("Invalid dot scale %v", config.DotScale))
		return Result{}, pipeline.ErrInvalidDotScale
	}

	o.logger.Info(l10n.T("Starting render"))
	var result Result

	// 1. Geometry
	o.logger.Info(l10n.F("Planning geometry for %d modules", matrix.ModuleCount()))
	plan, err := o.stages.Plan.Execute(ctx, pipeline.PlanInput{
		Size:        config.Size,
		Margin:      config.Margin,
		ModuleCount: matrix.ModuleCount(),
		Sizing:      config.Sizing,
	})
	if err != nil {
		return Result{}, fmt.Errorf("plan stage: %w", err)
	}
	result.Plan = plan
	o.logger.Info(l10n.F("Plan: module %dpx, viewport %dpx, card %dpx", plan.ModuleSize, plan.ViewportSize, plan.FinalSize))

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(plan, "", "  "); err == nil {
			if err := o.sink.SavePlanJSON(data); err != nil {
				o.logger.Warn(l10n.F("Failed to write debug output: %s", err))
			}
		}
	}

	// 2. Protected zones, including the logo before any module is painted
	protected, err := o.stages.Protect.Execute(ctx, pipeline.ProtectInput{
		Matrix: matrix,
		Plan:   plan,
		Policy: config.Protection,
	})
	if err != nil {
		return Result{}, fmt.Errorf("protect stage: %w", err)
	}
	region := protected.Region

	if config.Logo != nil {
		result.Logo = logo.ComputePlacement(plan, logo.Options{
			Scale:        config.LogoScale,
			Margin:       config.LogoMargin,
			CornerRadius: config.LogoCornerRadius,
			Badge:        config.LogoBadge != nil,
		})
		region.RegisterLogo(result.Logo.Protection)
	}
	result.Zones = region.Zones()

	// 3. Background
	o.logger.Info(l10n.T("Composing background"))
	light := firstColor(config.LightColor, color.White)
	bg, err := o.stages.Background.Execute(ctx, pipeline.BackgroundInput{
		Size:          plan.FinalSize,
		Color:         firstColor(config.BackgroundColor, light),
		Gradient:      config.Gradient,
		Image:         config.BackgroundImage,
		AutoColor:     config.AutoColor,
		MaskedDots:    config.MaskedDots,
		MaskGrayscale: config.MaskGrayscale,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to compose background: %s", err))
		return Result{}, fmt.Errorf("background stage: %w", err)
	}
	result.Background = bg.Kind

	if o.sink.Enabled() && bg.Mask != nil {
		if err := o.sink.SaveLayer("mask", bg.Mask); err != nil {
			o.logger.Warn(l10n.F("Failed to write debug output: %s", err))
		}
	}

	dark := firstColor(config.DarkColor, color.Black)
	eyes := firstColor(config.EyeColor, dark)
	if bg.Accent != nil {
		dark, eyes = bg.Accent, bg.Accent
	}

	// 4. Module grid
	o.logger.Info(l10n.F("Rendering %d modules", matrix.ModuleCount()*matrix.ModuleCount()))
	fg := o.renderer.CreateSurface(plan.FinalSize, plan.FinalSize, nil)
	result.Modules, err = o.stages.Modules.Execute(ctx, pipeline.ModulesInput{
		Surface: fg,
		Matrix:  matrix,
		Plan:    plan,
		Region:  region,
		Style: pipeline.ModuleStyle{
			DotScale:   config.DotScale,
			Block:      config.Block,
			Dark:       dark,
			Light:      light,
			MaskedDots: bg.Kind == pipeline.BackgroundMaskedImage,
			Mask:       bg.Mask,
		},
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to render modules: %s", err))
		return Result{}, fmt.Errorf("modules stage: %w", err)
	}

	// 5. Eyes, alignment markers, timing
	o.logger.Info(l10n.T("Rendering patterns"))
	result.Patterns, err = o.stages.Pattern.Execute(ctx, pipeline.PatternInput{
		Surface: fg,
		Matrix:  matrix,
		Plan:    plan,
		Region:  region,
		Eyes: pipeline.EyeStyle{
			Color:    eyes,
			Outer:    config.OuterEye,
			Inner:    config.InnerEye,
			Rotation: config.EyeRotation,
		},
		DarkColor:           dark,
		AlignmentMarkers:    config.AlignmentMarkers,
		TimingReinforcement: config.TimingReinforcement,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to render patterns: %s", err))
		return Result{}, fmt.Errorf("pattern stage: %w", err)
	}

	// 6. Composite
	o.logger.Info(l10n.T("Compositing layers"))
	result.Order = compositeOrder(config.Order, bg.Kind)
	compositeInput := pipeline.CompositeInput{
		Foreground:   fg,
		Background:   bg.Surface,
		Order:        result.Order,
		BorderRadius: config.BorderRadius,
		CardColor:    config.CardColor,
		OutputSize:   plan.RequestedSize,
	}
	if config.Logo != nil {
		compositeInput.Logo = &pipeline.LogoInput{
			Placement:  result.Logo,
			Logo:       config.Logo,
			Badge:      config.LogoBadge,
			PlateColor: color.White,
		}
	}
	composite, err := o.stages.Composite.Execute(ctx, compositeInput)
	if err != nil {
		o.logger.Error(l10n.F("Failed to composite layers: %s", err))
		return Result{}, fmt.Errorf("composite stage: %w", err)
	}

	// 7. Export
	o.logger.Info(l10n.F("Exporting %s", config.Format))
	exported, err := o.stages.Export.Execute(ctx, pipeline.ExportInput{
		Image:   composite.Image,
		Format:  config.Format,
		Quality: config.Quality,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to export: %s", err))
		return Result{}, fmt.Errorf("export stage: %w", err)
	}
	result.Output = exported.Output
	o.last = &result

	// 8. Output sinks
	for _, out := range config.Outputs {
		if out == nil {
			continue
		}
		if err := out.Accept(ctx, result.Output); err != nil {
			o.logger.Warn(l10n.F("Output sink failed: %s", err))
		}
	}

	o.logger.Info(l10n.F("Render completed: %dx%d %s, %d bytes",
		result.Width, result.Height, result.MIMEType, len(result.Data)))
	return result, nil
}

// Last returns the last rendered result.
func (o *Orchestrator) Last() (Result, bool) {
	if o.last == nil {
		return Result{}, false
	}
	return *o.last, true
}

// IsPainted reports whether a rendered result is exposed.
func (o *Orchestrator) IsPainted() bool {
	return o.last != nil
}

// Clear drops the last exposed result. Configuration is not affected.
func (o *Orchestrator) Clear() {
	o.last = nil
}

// compositeOrder applies the mask-fill order only where the background
// carries colors for the modules to take.
func compositeOrder(preferred pipeline.CompositeOrder, kind pipeline.BackgroundKind) pipeline.CompositeOrder {
	switch kind {
	case pipeline.BackgroundGradient, pipeline.BackgroundImage:
		return preferred
	default:
		return pipeline.OrderBackdrop
	}
}

func firstColor(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}
