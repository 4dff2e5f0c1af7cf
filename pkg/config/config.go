// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
	"github.com/user/qrstyle/pkg/qrstyle"
)

// Config represents a render configuration file.
// Unset style values keep the defaults of the selected profile.
type Config struct {
	// Input/Output
	Text   string `yaml:"text"`
	Output string `yaml:"output"`

	// Encoding
	Profile string `yaml:"profile"`
	Engine  string `yaml:"engine"`
	ECLevel string `yaml:"ec_level"`

	// Geometry
	Size         *int     `yaml:"size"`
	Margin       *int     `yaml:"margin"`
	BorderRadius *float64 `yaml:"border_radius"`

	// Modules
	DotScale   *float64 `yaml:"dot_scale"`
	BlockStyle string   `yaml:"block_style"`

	// Style
	Colors   ColorsConfig `yaml:"colors"`
	Gradient []StopConfig `yaml:"gradient"`

	// Background
	BackgroundImage string `yaml:"background_image"`
	AutoColor       *bool  `yaml:"auto_color"`
	MaskedDots      bool   `yaml:"masked_dots"`
	MaskGrayscale   bool   `yaml:"mask_grayscale"`

	// Logo
	Logo LogoConfig `yaml:"logo"`

	// Eyes
	Eyes EyesConfig `yaml:"eyes"`

	// Export
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`

	// Batch
	Workers int `yaml:"workers"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	// baseDir resolves relative image paths.
	baseDir string
}

// ColorsConfig holds hex colors.
type ColorsConfig struct {
	Dark       string `yaml:"dark"`
	Light      string `yaml:"light"`
	Eyes       string `yaml:"eyes"`
	Background string `yaml:"background"`
	Card       string `yaml:"card"`
}

// StopConfig is one gradient stop.
type StopConfig struct {
	Offset float64 `yaml:"offset"`
	Color  string  `yaml:"color"`
}

// LogoConfig represents the logo overlay.
type LogoConfig struct {
	Image        string   `yaml:"image"`
	Scale        *float64 `yaml:"scale"`
	Margin       *float64 `yaml:"margin"`
	CornerRadius *float64 `yaml:"corner_radius"`
	Badge        string   `yaml:"badge"`
}

// EyesConfig represents finder eye overrides.
type EyesConfig struct {
	OuterImage string         `yaml:"outer_image"`
	InnerImage string         `yaml:"inner_image"`
	Rotation   RotationConfig `yaml:"rotation"`
}

// RotationConfig holds per-corner eye rotations in degrees.
type RotationConfig struct {
	TopLeft    float64 `yaml:"top_left"`
	TopRight   float64 `yaml:"top_right"`
	BottomLeft float64 `yaml:"bottom_left"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Input/Output
		Output: qrstyle.DefaultFileName,

		// Encoding
		Profile: string(qrstyle.ProfileClassic),
		Engine:  string(qrstyle.EngineYeqown),
		ECLevel: "M",

		// Modules
		BlockStyle: "square",

		// Export
		Format:  "png",
		Quality: qrstyle.DefaultQuality,

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file. Image paths in the
// file are resolved relative to its directory.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.baseDir = filepath.Dir(path)
	return cfg, nil
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" or "transparent".
// The leading '#' is optional.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return color.Transparent, nil
	}

	hex := strings.TrimPrefix(s, "#")
	var digits []uint8
	for i := 0; i < len(hex); i++ {
		v, ok := hexValue(hex[i])
		if !ok {
			return nil, fmt.Errorf("invalid color %q", s)
		}
		digits = append(digits, v)
	}

	switch len(digits) {
	case 3:
		return color.NRGBA{R: digits[0] * 17, G: digits[1] * 17, B: digits[2] * 17, A: 255}, nil
	case 6:
		return color.NRGBA{
			R: digits[0]<<4 | digits[1],
			G: digits[2]<<4 | digits[3],
			B: digits[4]<<4 | digits[5],
			A: 255,
		}, nil
	case 8:
		return color.NRGBA{
			R: digits[0]<<4 | digits[1],
			G: digits[2]<<4 | digits[3],
			B: digits[4]<<4 | digits[5],
			A: digits[6]<<4 | digits[7],
		}, nil
	default:
		return nil, fmt.Errorf("invalid color %q", s)
	}
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// ToOptions converts Config to qrstyle.Options. Referenced images are read
// through fs and decoded by renderer.
func (c Config) ToOptions(fs ports.FileSystem, renderer ports.Renderer) (qrstyle.Options, error) {
	b := qrstyle.NewOptionsBuilder(qrstyle.ParseProfile(c.Profile)).
		WithEngine(qrstyle.ParseEngine(c.Engine)).
		WithECLevel(ports.ParseECLevel(c.ECLevel)).
		WithBlockStyle(pipeline.ParseBlockStyle(c.BlockStyle)).
		WithMaskedDots(c.MaskedDots, c.MaskGrayscale).
		WithEyeRotation(c.Eyes.Rotation.TopLeft, c.Eyes.Rotation.TopRight, c.Eyes.Rotation.BottomLeft).
		WithFormat(ports.ParseImageFormat(c.Format), c.Quality)
	defaults := b.Build()

	// Geometry
	if c.Size != nil {
		b.WithSize(*c.Size)
	}
	if c.Margin != nil {
		b.WithMargin(*c.Margin)
	}
	if c.BorderRadius != nil {
		b.WithBorderRadius(*c.BorderRadius)
	}
	if c.DotScale != nil {
		b.WithDotScale(*c.DotScale)
	}
	if c.AutoColor != nil {
		b.WithAutoColor(*c.AutoColor)
	}

	// Colors
	dark, err := colorOr(c.Colors.Dark, defaults.DarkColor)
	if err != nil {
		return qrstyle.Options{}, fmt.Errorf("colors.dark: %w", err)
	}
	light, err := colorOr(c.Colors.Light, defaults.LightColor)
	if err != nil {
		return qrstyle.Options{}, fmt.Errorf("colors.light: %w", err)
	}
	b.WithColors(dark, light)

	eyes, err := colorOr(c.Colors.Eyes, nil)
	if err != nil {
		return qrstyle.Options{}, fmt.Errorf("colors.eyes: %w", err)
	}
	b.WithEyeColor(eyes)

	bg, err := colorOr(c.Colors.Background, nil)
	if err != nil {
		return qrstyle.Options{}, fmt.Errorf("colors.background: %w", err)
	}
	b.WithBackgroundColor(bg)

	card, err := colorOr(c.Colors.Card, defaults.CardColor)
	if err != nil {
		return qrstyle.Options{}, fmt.Errorf("colors.card: %w", err)
	}
	b.WithCardColor(card)

	if len(c.Gradient) > 0 {
		stops := make([]ports.GradientStop, len(c.Gradient))
		for i, s := range c.Gradient {
			sc, err := ParseColor(s.Color)
			if err != nil {
				return qrstyle.Options{}, fmt.Errorf("gradient[%d]: %w", i, err)
			}
			stops[i] = ports.GradientStop{Offset: s.Offset, Color: sc}
		}
		b.WithGradient(stops...)
	}

	// Images
	loader := imageLoader{fs: fs, renderer: renderer, baseDir: c.baseDir}

	bgImage, err := loader.load("background image", c.BackgroundImage)
	if err != nil {
		return qrstyle.Options{}, err
	}
	b.WithBackgroundImage(bgImage)

	logoImage, err := loader.load("logo", c.Logo.Image)
	if err != nil {
		return qrstyle.Options{}, err
	}
	scale, margin := defaults.LogoScale, defaults.LogoMargin
	if c.Logo.Scale != nil {
		scale = *c.Logo.Scale
	}
	if c.Logo.Margin != nil {
		margin = *c.Logo.Margin
	}
	b.WithLogo(logoImage, scale, margin)
	if c.Logo.CornerRadius != nil {
		b.WithLogoCornerRadius(*c.Logo.CornerRadius)
	}

	badge, err := loader.load("logo badge", c.Logo.Badge)
	if err != nil {
		return qrstyle.Options{}, err
	}
	b.WithLogoBadge(badge)

	outer, err := loader.load("outer eye", c.Eyes.OuterImage)
	if err != nil {
		return qrstyle.Options{}, err
	}
	inner, err := loader.load("inner eye", c.Eyes.InnerImage)
	if err != nil {
		return qrstyle.Options{}, err
	}
	b.WithEyeImages(outer, inner)

	return b.Build(), nil
}

// WithBaseDir returns a copy of c resolving relative image paths from dir.
func (c Config) WithBaseDir(dir string) Config {
	c.baseDir = dir
	return c
}

func colorOr(s string, fallback color.Color) (color.Color, error) {
	if s == "" {
		return fallback, nil
	}
	return ParseColor(s)
}

type imageLoader struct {
	fs       ports.FileSystem
	renderer ports.Renderer
	baseDir  string
}

// load returns nil for an empty path.
func (l imageLoader) load(name, path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	img, err := l.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}
