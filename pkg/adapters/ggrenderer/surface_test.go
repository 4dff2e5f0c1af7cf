package ggrenderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/qrstyle/pkg/ports"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	black = color.RGBA{A: 255}
)

func rgbaAt(s ports.Surface, x, y int) color.RGBA {
	return s.Image().RGBAAt(x, y)
}

// near compares colors with a small tolerance for resampling rounding.
func near(a, b color.RGBA) bool {
	diff := func(x, y uint8) bool {
		if x > y {
			return x-y <= 2
		}
		return y-x <= 2
	}
	return diff(a.R, b.R) && diff(a.G, b.G) && diff(a.B, b.B) && diff(a.A, b.A)
}

func TestSurface_FillRect(t *testing.T) {
	s := New().CreateSurface(20, 20, nil)

	s.FillRect(ports.Rect{X: 5, Y: 5, W: 10, H: 10}, red, ports.BlendSourceOver)

	if got := rgbaAt(s, 10, 10); got != red {
		t.Errorf("inside: expected red, got %+v", got)
	}
	if got := rgbaAt(s, 2, 2); got.A != 0 {
		t.Errorf("outside: expected transparent, got %+v", got)
	}
}

func TestSurface_XorCancelsOverlap(t *testing.T) {
	s := New().CreateSurface(30, 30, nil)

	s.FillRect(ports.Rect{X: 0, Y: 0, W: 30, H: 30}, black, ports.BlendSourceOver)
	s.FillRect(ports.Rect{X: 10, Y: 10, W: 10, H: 10}, black, ports.BlendXor)

	if got := rgbaAt(s, 15, 15); got.A != 0 {
		t.Errorf("overlap: expected transparent, got %+v", got)
	}
	if got := rgbaAt(s, 5, 5); got != black {
		t.Errorf("outside overlap: expected black, got %+v", got)
	}
}

func TestSurface_XorOnEmptyAreaPaints(t *testing.T) {
	s := New().CreateSurface(20, 20, nil)

	s.FillRect(ports.Rect{X: 0, Y: 0, W: 20, H: 20}, blue, ports.BlendXor)

	if got := rgbaAt(s, 10, 10); got != blue {
		t.Errorf("expected blue, got %+v", got)
	}
}

func TestSurface_DestinationIn(t *testing.T) {
	r := New()
	bg := r.CreateSurface(20, 20, red)
	fg := r.CreateSurface(20, 20, nil)
	fg.FillRect(ports.Rect{X: 0, Y: 0, W: 10, H: 20}, black, ports.BlendSourceOver)

	bg.Composite(fg, ports.BlendDestinationIn)

	if got := rgbaAt(bg, 5, 10); got != red {
		t.Errorf("covered: expected red kept, got %+v", got)
	}
	if got := rgbaAt(bg, 15, 10); got.A != 0 {
		t.Errorf("uncovered: expected cleared, got %+v", got)
	}
}

func TestSurface_DestinationOver(t *testing.T) {
	s := New().CreateSurface(20, 20, nil)
	s.FillRect(ports.Rect{X: 0, Y: 0, W: 10, H: 20}, red, ports.BlendSourceOver)

	s.FillRect(ports.Rect{X: 0, Y: 0, W: 20, H: 20}, blue, ports.BlendDestinationOver)

	if got := rgbaAt(s, 5, 10); got != red {
		t.Errorf("existing content: expected red on top, got %+v", got)
	}
	if got := rgbaAt(s, 15, 10); got != blue {
		t.Errorf("empty area: expected blue behind, got %+v", got)
	}
}

func TestSurface_SourceInStencil(t *testing.T) {
	s := New().CreateSurface(20, 20, nil)
	s.FillRect(ports.Rect{X: 0, Y: 0, W: 10, H: 20}, black, ports.BlendSourceOver)

	s.FillRect(ports.Rect{X: 0, Y: 0, W: 20, H: 20}, red, ports.BlendSourceIn)

	if got := rgbaAt(s, 5, 10); got != red {
		t.Errorf("stencil: expected red, got %+v", got)
	}
	if got := rgbaAt(s, 15, 10); got.A != 0 {
		t.Errorf("outside stencil: expected transparent, got %+v", got)
	}
}

func TestSurface_ClipAndRestore(t *testing.T) {
	s := New().CreateSurface(40, 40, nil)

	s.Save()
	s.ClipRoundedRect(ports.Rect{X: 10, Y: 10, W: 20, H: 20}, 0)
	s.FillRect(ports.Rect{X: 0, Y: 0, W: 40, H: 40}, red, ports.BlendSourceOver)
	s.Restore()

	if got := rgbaAt(s, 20, 20); got != red {
		t.Errorf("inside clip: expected red, got %+v", got)
	}
	if got := rgbaAt(s, 2, 2); got.A != 0 {
		t.Errorf("outside clip: expected transparent, got %+v", got)
	}

	s.FillRect(ports.Rect{X: 0, Y: 0, W: 5, H: 5}, blue, ports.BlendSourceOver)
	if got := rgbaAt(s, 2, 2); got != blue {
		t.Errorf("after restore: expected blue, got %+v", got)
	}
}

func TestSurface_ClipAppliesToBlendModes(t *testing.T) {
	s := New().CreateSurface(40, 40, red)

	s.Save()
	s.ClipRoundedRect(ports.Rect{X: 0, Y: 0, W: 20, H: 40}, 0)
	// Destination-in with an empty source clears only inside the clip.
	empty := New().CreateSurface(40, 40, nil)
	s.Composite(empty, ports.BlendDestinationIn)
	s.Restore()

	if got := rgbaAt(s, 10, 20); got.A != 0 {
		t.Errorf("inside clip: expected cleared, got %+v", got)
	}
	if got := rgbaAt(s, 30, 20); got != red {
		t.Errorf("outside clip: expected red kept, got %+v", got)
	}
}

func TestSurface_RoundedClipCutsCorners(t *testing.T) {
	s := New().CreateSurface(40, 40, nil)

	s.ClipRoundedRect(ports.Rect{X: 0, Y: 0, W: 40, H: 40}, 20)
	s.FillRect(ports.Rect{X: 0, Y: 0, W: 40, H: 40}, red, ports.BlendSourceOver)

	if got := rgbaAt(s, 0, 0); got.A != 0 {
		t.Errorf("corner: expected transparent, got %+v", got)
	}
	if got := rgbaAt(s, 20, 20); got != red {
		t.Errorf("center: expected red, got %+v", got)
	}
}

func TestSurface_FillCircleImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := red
			if x >= 20 {
				c = blue
			}
			src.SetRGBA(x, y, c)
		}
	}

	s := New().CreateSurface(40, 40, nil)
	s.FillCircleImage(20, 20, 10, src, ports.BlendSourceOver)

	if got := rgbaAt(s, 14, 20); got != red {
		t.Errorf("left half: expected red, got %+v", got)
	}
	if got := rgbaAt(s, 26, 20); got != blue {
		t.Errorf("right half: expected blue, got %+v", got)
	}
	if got := rgbaAt(s, 11, 11); got.A != 0 {
		t.Errorf("outside circle: expected transparent, got %+v", got)
	}
	if got := rgbaAt(s, 2, 20); got.A != 0 {
		t.Errorf("outside circle: expected transparent, got %+v", got)
	}
}

func TestSurface_DrawImageScaled(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetRGBA(x, y, blue)
		}
	}

	s := New().CreateSurface(40, 40, nil)
	s.DrawImage(src, ports.Rect{X: 10, Y: 10, W: 20, H: 20}, ports.BlendSourceOver)

	if got := rgbaAt(s, 20, 20); !near(got, blue) {
		t.Errorf("inside blit: expected blue, got %+v", got)
	}
	if got := rgbaAt(s, 5, 5); got.A != 0 {
		t.Errorf("outside blit: expected transparent, got %+v", got)
	}
}

func TestSurface_DrawImageRotated(t *testing.T) {
	// Left half red, right half blue; rotating by 180 swaps the halves.
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				src.SetRGBA(x, y, red)
			} else {
				src.SetRGBA(x, y, blue)
			}
		}
	}

	s := New().CreateSurface(20, 20, nil)
	s.DrawImageRotated(src, ports.Rect{X: 0, Y: 0, W: 20, H: 20}, 180, ports.BlendSourceOver)

	if got := rgbaAt(s, 4, 10); !near(got, blue) {
		t.Errorf("left half: expected blue, got %+v", got)
	}
	if got := rgbaAt(s, 15, 10); !near(got, red) {
		t.Errorf("right half: expected red, got %+v", got)
	}

	// Later drawing is not rotated.
	s.FillRect(ports.Rect{X: 0, Y: 0, W: 5, H: 5}, black, ports.BlendSourceOver)
	if got := rgbaAt(s, 1, 1); got != black {
		t.Errorf("after rotation: expected black at origin, got %+v", got)
	}
}

func TestSurface_FillGradient(t *testing.T) {
	s := New().CreateSurface(100, 10, nil)
	s.FillGradient(ports.Rect{X: 0, Y: 0, W: 100, H: 10}, ports.LinearGradient{
		X0: 0, Y0: 0, X1: 100, Y1: 0,
		Stops: []ports.GradientStop{
			{Offset: 0, Color: red},
			{Offset: 1, Color: blue},
		},
	}, ports.BlendSourceOver)

	left := rgbaAt(s, 1, 5)
	right := rgbaAt(s, 98, 5)
	if left.R < 200 || left.B > 50 {
		t.Errorf("left: expected mostly red, got %+v", left)
	}
	if right.B < 200 || right.R > 50 {
		t.Errorf("right: expected mostly blue, got %+v", right)
	}
}

func TestSurface_Clear(t *testing.T) {
	s := New().CreateSurface(10, 10, red)
	s.ClipRoundedRect(ports.Rect{X: 0, Y: 0, W: 5, H: 5}, 0)

	s.Clear()

	if got := rgbaAt(s, 8, 8); got.A != 0 {
		t.Errorf("expected transparent after clear, got %+v", got)
	}
	s.FillRect(ports.Rect{X: 6, Y: 6, W: 4, H: 4}, blue, ports.BlendSourceOver)
	if got := rgbaAt(s, 8, 8); got != blue {
		t.Errorf("clip should be reset by clear, got %+v", got)
	}
}

func TestBlendMode_String(t *testing.T) {
	tests := map[ports.BlendMode]string{
		ports.BlendSourceOver:      "source-over",
		ports.BlendDestinationIn:   "destination-in",
		ports.BlendDestinationOver: "destination-over",
		ports.BlendXor:             "xor",
		ports.BlendSourceIn:        "source-in",
	}
	for mode, want := range tests {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}
