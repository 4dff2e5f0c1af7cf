package config

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/qrstyle/pkg/mocks"
	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
	"github.com/user/qrstyle/pkg/qrstyle"
	"github.com/user/qrstyle/pkg/stages/logo"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
	}{
		{"#000", color.NRGBA{A: 255}},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#1a2B3c", color.NRGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 255}},
		{"ff000080", color.NRGBA{R: 255, A: 0x80}},
		{" transparent ", color.Transparent},
		{"Transparent", color.Transparent},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#ggg", "red"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q): expected error", in)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qr.yaml")
	content := `
text: https://example.com
profile: awesome
engine: rsc
ec_level: H
margin: 10
dot_scale: 0.5
block_style: circle
colors:
  dark: "#102030"
gradient:
  - offset: 0
    color: "#ff0000"
  - offset: 1
    color: "#0000ff"
logo:
  scale: 0.25
eyes:
  rotation:
    top_right: 90
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Text != "https://example.com" || cfg.Profile != "awesome" || cfg.Engine != "rsc" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Output != qrstyle.DefaultFileName || cfg.Format != "png" {
		t.Errorf("defaults not kept: output=%q format=%q", cfg.Output, cfg.Format)
	}
	if cfg.Size != nil {
		t.Errorf("size should be unset, got %d", *cfg.Size)
	}

	opts, err := cfg.ToOptions(mocks.NewFileSystem(), &mocks.Renderer{})
	if err != nil {
		t.Fatalf("ToOptions failed: %v", err)
	}

	if opts.Profile != qrstyle.ProfileAwesome || opts.Size != 800 {
		t.Errorf("profile defaults lost: %s size %d", opts.Profile, opts.Size)
	}
	if opts.Engine != qrstyle.EngineRSC || opts.ECLevel != ports.ECHigh {
		t.Errorf("engine/level = %s/%s", opts.Engine, opts.ECLevel)
	}
	if opts.Margin != 10 || opts.DotScale != 0.5 || opts.Block != pipeline.BlockCircle {
		t.Errorf("overrides lost: margin %d dotScale %v block %s", opts.Margin, opts.DotScale, opts.Block)
	}
	if opts.DarkColor != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}) {
		t.Errorf("DarkColor = %+v", opts.DarkColor)
	}
	if len(opts.Gradient) != 2 || opts.Gradient[1].Offset != 1 {
		t.Errorf("Gradient = %+v", opts.Gradient)
	}
	if opts.LogoScale != 0.25 || opts.LogoCornerRadius != logo.AutoCornerRadius {
		t.Errorf("logo = %v/%v", opts.LogoScale, opts.LogoCornerRadius)
	}
	if opts.EyeRotation != [3]float64{0, 90, 0} {
		t.Errorf("EyeRotation = %v", opts.EyeRotation)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("size: [1, 2"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestToOptions_LoadsImagesRelativeToBaseDir(t *testing.T) {
	fs := mocks.NewFileSystem()
	_ = fs.WriteFile(filepath.Join("assets", "logo.png"), []byte("logo"))
	_ = fs.WriteFile(filepath.Join("assets", "bg.png"), []byte("bg"))

	var decoded []string
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
			decoded = append(decoded, string(data))
			return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
		},
	}

	cfg := Defaults()
	cfg.Logo.Image = "logo.png"
	cfg.BackgroundImage = "bg.png"
	cfg = cfg.WithBaseDir("assets")

	opts, err := cfg.ToOptions(fs, renderer)
	if err != nil {
		t.Fatalf("ToOptions failed: %v", err)
	}
	if opts.Logo == nil || opts.BackgroundImage == nil {
		t.Fatal("expected logo and background images")
	}
	if opts.LogoBadge != nil || opts.OuterEye != nil {
		t.Error("unset images should stay nil")
	}
	if strings.Join(decoded, ",") != "bg,logo" {
		t.Errorf("decoded %v", decoded)
	}
}

func TestToOptions_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		render *mocks.Renderer
		want   string
	}{
		{
			name:   "bad color",
			mutate: func(c *Config) { c.Colors.Light = "#zz" },
			render: &mocks.Renderer{},
			want:   "colors.light",
		},
		{
			name:   "bad gradient stop",
			mutate: func(c *Config) { c.Gradient = []StopConfig{{Offset: 0, Color: "blue"}} },
			render: &mocks.Renderer{},
			want:   "gradient[0]",
		},
		{
			name:   "missing logo",
			mutate: func(c *Config) { c.Logo.Image = "nope.png" },
			render: &mocks.Renderer{},
			want:   "read logo",
		},
		{
			name:   "undecodable eye",
			mutate: func(c *Config) { c.Eyes.OuterImage = "eye.png" },
			render: &mocks.Renderer{
				DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
					return nil, errors.New("unknown format")
				},
			},
			want: "decode outer eye",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFileSystem()
			_ = fs.WriteFile("eye.png", []byte("eye"))

			cfg := Defaults()
			tt.mutate(&cfg)

			_, err := cfg.ToOptions(fs, tt.render)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
