// Package qrstyle provides a high-level API for rendering stylized QR codes.
package qrstyle

import (
	"image"
	"image/color"
	"math"

	"github.com/user/qrstyle/pkg/orchestrator"
	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
	"github.com/user/qrstyle/pkg/stages/logo"
	"github.com/user/qrstyle/pkg/stages/pattern"
)

// Profile names a set of structural policy flags.
type Profile string

const (
	// ProfileClassic protects alignment zones and fills modules from
	// gradient and image backgrounds.
	ProfileClassic Profile = "classic"
	// ProfileVector sizes modules with a half-module border for vector output.
	ProfileVector Profile = "vector"
	// ProfileAwesome draws alignment markers and timing reinforcement over
	// an opaque backdrop.
	ProfileAwesome Profile = "awesome"
)

// ParseProfile parses a profile name. Unknown names map to ProfileClassic.
func ParseProfile(s string) Profile {
	switch Profile(s) {
	case ProfileVector:
		return ProfileVector
	case ProfileAwesome:
		return ProfileAwesome
	default:
		return ProfileClassic
	}
}

// Engine names the QR encoding engine that produces the module matrix.
type Engine string

const (
	EngineYeqown Engine = "yeqown"
	EngineSkip2  Engine = "skip2"
	EngineRSC    Engine = "rsc"
)

// ParseEngine parses an engine name. Unknown names map to EngineYeqown.
func ParseEngine(s string) Engine {
	switch Engine(s) {
	case EngineSkip2:
		return EngineSkip2
	case EngineRSC:
		return EngineRSC
	default:
		return EngineYeqown
	}
}

// DefaultQuality is the JPEG quality used when none is set.
const DefaultQuality = 90

// Options is the normalized configuration snapshot of a render.
// Use OptionsBuilder to create one.
type Options struct {
	Profile Profile
	Engine  Engine
	ECLevel ports.ECLevel

	// Geometry
	Size         int
	Margin       int
	BorderRadius float64

	// Structure (set by the profile)
	Sizing              pipeline.SizingPolicy
	Protection          pipeline.ProtectionPolicy
	AlignmentMarkers    bool
	TimingReinforcement bool
	Order               pipeline.CompositeOrder

	// Modules
	DotScale   float64
	Block      pipeline.BlockStyle
	DarkColor  color.Color
	LightColor color.Color
	EyeColor   color.Color // nil follows DarkColor

	// Background
	BackgroundColor color.Color // nil follows LightColor
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

	// Eyes: rotations are top-left, top-right, bottom-left
	OuterEye    image.Image
	InnerEye    image.Image
	EyeRotation [3]float64

	// Export
	Format  ports.ImageFormat
	Quality int
	Outputs []ports.OutputSink
}

// OptionsBuilder provides a fluent interface for building Options.
type OptionsBuilder struct {
	options Options
}

// NewOptionsBuilder creates a builder holding the defaults of profile.
func NewOptionsBuilder(profile Profile) *OptionsBuilder {
	switch profile {
	case ProfileVector:
		return &OptionsBuilder{options: vectorDefaults()}
	case ProfileAwesome:
		return &OptionsBuilder{options: awesomeDefaults()}
	default:
		return &OptionsBuilder{options: classicDefaults()}
	}
}

// classicDefaults returns the classic profile configuration.
func classicDefaults() Options {
	return Options{
		Profile: ProfileClassic,
		Engine:  EngineYeqown,
		ECLevel: ports.ECMedium,

		// Geometry
		Size:         320,
		Margin:       20,
		BorderRadius: 20,

		// Structure
		Sizing:     pipeline.SizeByModuleCount,
		Protection: pipeline.ProtectionPolicy{Alignment: true},
		Order:      pipeline.OrderMaskFill,

		// Modules
		DotScale:   0.35,
		Block:      pipeline.BlockSquare,
		DarkColor:  color.Black,
		LightColor: color.White,

		// Background
		AutoColor: true,
		CardColor: color.White,

		// Logo
		LogoScale:        logo.DefaultScale,
		LogoCornerRadius: logo.AutoCornerRadius,

		// Export
		Format:  ports.FormatPNG,
		Quality: DefaultQuality,
	}
}

// vectorDefaults returns the vector profile configuration.
func vectorDefaults() Options {
	o := classicDefaults()
	o.Profile = ProfileVector
	o.Sizing = pipeline.SizeWithHalfModuleBorder
	o.BorderRadius = 0
	return o
}

// awesomeDefaults returns the awesome profile configuration.
func awesomeDefaults() Options {
	o := classicDefaults()
	o.Profile = ProfileAwesome
	o.Size = 800
	o.BorderRadius = 8
	o.Protection = pipeline.ProtectionPolicy{Alignment: true, Timing: true}
	o.AlignmentMarkers = true
	o.TimingReinforcement = true
	o.Order = pipeline.OrderBackdrop
	return o
}

// Build returns the final Options with out-of-range values replaced by
// their defaults. DotScale is left untouched: an invalid dot scale fails
// the render instead.
func (b *OptionsBuilder) Build() Options {
	o := b.options

	if o.Size <= 0 {
		o.Size = NewOptionsBuilder(o.Profile).options.Size
	}
	if o.Margin < 0 || o.Margin*2 >= o.Size {
		o.Margin = 0
	}
	if !finite(o.BorderRadius) || o.BorderRadius < 0 {
		o.BorderRadius = 0
	}

	if !(o.LogoScale > 0 && o.LogoScale < 1) {
		o.LogoScale = logo.DefaultScale
	}
	if !finite(o.LogoMargin) || o.LogoMargin < 0 {
		o.LogoMargin = 0
	}
	if math.IsNaN(o.LogoCornerRadius) || o.LogoCornerRadius < 0 {
		o.LogoCornerRadius = logo.AutoCornerRadius
	}

	for i, deg := range o.EyeRotation {
		o.EyeRotation[i] = pattern.NormalizeRotation(deg)
	}

	if o.Quality < 1 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.Format == ports.FormatAuto {
		o.Format = ports.FormatPNG
	}

	// Detach slices so later builder calls do not leak into this snapshot.
	o.Gradient = append([]ports.GradientStop(nil), o.Gradient...)
	o.Outputs = append([]ports.OutputSink(nil), o.Outputs...)
	return o
}

// WithSize sets the output side in pixels.
func (b *OptionsBuilder) WithSize(size int) *OptionsBuilder {
	b.options.Size = size
	return b
}

// WithMargin sets the quiet zone in pixels.
func (b *OptionsBuilder) WithMargin(margin int) *OptionsBuilder {
	b.options.Margin = margin
	return b
}

// WithBorderRadius sets the outer card corner radius.
func (b *OptionsBuilder) WithBorderRadius(radius float64) *OptionsBuilder {
	b.options.BorderRadius = radius
	return b
}

// WithEngine selects the QR encoding engine.
func (b *OptionsBuilder) WithEngine(engine Engine) *OptionsBuilder {
	b.options.Engine = engine
	return b
}

// WithECLevel sets the error correction level.
func (b *OptionsBuilder) WithECLevel(level ports.ECLevel) *OptionsBuilder {
	b.options.ECLevel = level
	return b
}

// WithDotScale sets the module inset fraction, in (0, 1].
func (b *OptionsBuilder) WithDotScale(scale float64) *OptionsBuilder {
	b.options.DotScale = scale
	return b
}

// WithBlockStyle sets the shape of stylized modules.
func (b *OptionsBuilder) WithBlockStyle(block pipeline.BlockStyle) *OptionsBuilder {
	b.options.Block = block
	return b
}

// WithColors sets the dark and light module colors.
func (b *OptionsBuilder) WithColors(dark, light color.Color) *OptionsBuilder {
	b.options.DarkColor = dark
	b.options.LightColor = light
	return b
}

// WithEyeColor sets the finder eye color.
func (b *OptionsBuilder) WithEyeColor(c color.Color) *OptionsBuilder {
	b.options.EyeColor = c
	return b
}

// WithBackgroundColor sets the solid background color.
func (b *OptionsBuilder) WithBackgroundColor(c color.Color) *OptionsBuilder {
	b.options.BackgroundColor = c
	return b
}

// WithGradient sets a diagonal gradient background.
func (b *OptionsBuilder) WithGradient(stops ...ports.GradientStop) *OptionsBuilder {
	b.options.Gradient = append([]ports.GradientStop(nil), stops...)
	return b
}

// WithBackgroundImage sets the background image.
func (b *OptionsBuilder) WithBackgroundImage(img image.Image) *OptionsBuilder {
	b.options.BackgroundImage = img
	return b
}

// WithAutoColor enables taking the dark color from the background image.
func (b *OptionsBuilder) WithAutoColor(enabled bool) *OptionsBuilder {
	b.options.AutoColor = enabled
	return b
}

// WithMaskedDots enables painting modules from the background image.
// When grayscale is set the mask is luminance-derived.
func (b *OptionsBuilder) WithMaskedDots(enabled, grayscale bool) *OptionsBuilder {
	b.options.MaskedDots = enabled
	b.options.MaskGrayscale = grayscale
	return b
}

// WithCardColor sets the color drawn behind the rounded card.
func (b *OptionsBuilder) WithCardColor(c color.Color) *OptionsBuilder {
	b.options.CardColor = c
	return b
}

// WithLogo sets the logo image with its scale and margin.
func (b *OptionsBuilder) WithLogo(img image.Image, scale, margin float64) *OptionsBuilder {
	b.options.Logo = img
	b.options.LogoScale = scale
	b.options.LogoMargin = margin
	return b
}

// WithLogoCornerRadius sets the logo clip radius. A negative radius
// selects a circle.
func (b *OptionsBuilder) WithLogoCornerRadius(radius float64) *OptionsBuilder {
	b.options.LogoCornerRadius = radius
	return b
}

// WithLogoBadge sets the service badge drawn at the logo's bottom-right.
func (b *OptionsBuilder) WithLogoBadge(img image.Image) *OptionsBuilder {
	b.options.LogoBadge = img
	return b
}

// WithEyeImages sets the outer and inner eye images.
func (b *OptionsBuilder) WithEyeImages(outer, inner image.Image) *OptionsBuilder {
	b.options.OuterEye = outer
	b.options.InnerEye = inner
	return b
}

// WithEyeRotation sets the rotation in degrees for the top-left, top-right
// and bottom-left eyes.
func (b *OptionsBuilder) WithEyeRotation(topLeft, topRight, bottomLeft float64) *OptionsBuilder {
	b.options.EyeRotation = [3]float64{topLeft, topRight, bottomLeft}
	return b
}

// WithFormat sets the export format. quality applies to JPEG.
func (b *OptionsBuilder) WithFormat(format ports.ImageFormat, quality int) *OptionsBuilder {
	b.options.Format = format
	b.options.Quality = quality
	return b
}

// WithOutput adds an output sink invoked once per render.
func (b *OptionsBuilder) WithOutput(sink ports.OutputSink) *OptionsBuilder {
	b.options.Outputs = append(b.options.Outputs, sink)
	return b
}

// ToOrchestratorConfig converts Options to orchestrator.Config.
func (o Options) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		// Geometry
		Size:         o.Size,
		Margin:       o.Margin,
		BorderRadius: o.BorderRadius,
		Sizing:       o.Sizing,

		// Structure
		Protection:          o.Protection,
		AlignmentMarkers:    o.AlignmentMarkers,
		TimingReinforcement: o.TimingReinforcement,
		Order:               o.Order,

		// Modules
		DotScale:   o.DotScale,
		Block:      o.Block,
		DarkColor:  o.DarkColor,
		LightColor: o.LightColor,
		EyeColor:   o.EyeColor,

		// Background
		BackgroundColor: o.BackgroundColor,
		Gradient:        o.Gradient,
		BackgroundImage: o.BackgroundImage,
		AutoColor:       o.AutoColor,
		MaskedDots:      o.MaskedDots,
		MaskGrayscale:   o.MaskGrayscale,
		CardColor:       o.CardColor,

		// Logo
		Logo:             o.Logo,
		LogoScale:        o.LogoScale,
		LogoMargin:       o.LogoMargin,
		LogoCornerRadius: o.LogoCornerRadius,
		LogoBadge:        o.LogoBadge,

		// Eyes
		OuterEye:    o.OuterEye,
		InnerEye:    o.InnerEye,
		EyeRotation: o.EyeRotation,

		// Export
		Format:  o.Format,
		Quality: o.Quality,
		Outputs: o.Outputs,
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
