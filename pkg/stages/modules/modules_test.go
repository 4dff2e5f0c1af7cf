package modules

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/user/qrstyle/pkg/mocks"
	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/stages/plan"
	"github.com/user/qrstyle/pkg/stages/protect"
)

// gridPlan gives 10px modules with a 20px margin.
func gridPlan(n int) pipeline.RenderPlan {
	return plan.ComputePlan(pipeline.PlanInput{Size: n*10 + 40, Margin: 20, ModuleCount: n})
}

func execute(t *testing.T, input pipeline.ModulesInput) pipeline.ModulesResult {
	t.Helper()
	result, err := NewStage(mocks.NewLogger()).Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	return result
}

func TestStage_InvalidDotScale(t *testing.T) {
	for _, scale := range []float64{0, -0.5, 1.01, math.NaN(), math.Inf(1)} {
		surface := mocks.NewSurface(250, 250)
		_, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.ModulesInput{
			Surface: surface,
			Matrix:  mocks.NewMatrix(1),
			Plan:    gridPlan(21),
			Style:   pipeline.ModuleStyle{DotScale: scale},
		})
		if !errors.Is(err, pipeline.ErrInvalidDotScale) {
			t.Errorf("dotScale %v: expected ErrInvalidDotScale, got %v", scale, err)
		}
		if len(surface.Ops) != 0 {
			t.Errorf("dotScale %v: expected no drawing, got %d ops", scale, len(surface.Ops))
		}
	}
}

func TestStage_InsetDots(t *testing.T) {
	tests := []struct {
		scale float64
		side  float64
	}{
		{0.35, 3.5},
		{0.5, 5},
		{1, 10},
	}

	for _, tt := range tests {
		m := mocks.NewMatrix(1)
		p := gridPlan(21)
		surface := mocks.NewSurface(250, 250)

		result := execute(t, pipeline.ModulesInput{
			Surface: surface,
			Matrix:  m,
			Plan:    p,
			Region:  protect.NewClassifier(m, p, pipeline.ProtectionPolicy{}),
			Style:   pipeline.ModuleStyle{DotScale: tt.scale},
		})

		if result.Deferred != 3*64 {
			t.Errorf("scale %v: expected 192 finder cells deferred, got %d", tt.scale, result.Deferred)
		}
		if result.Stylized != 21*21-3*64 {
			t.Errorf("scale %v: expected 249 stylized, got %d", tt.scale, result.Stylized)
		}

		rects := surface.OpsOfKind("rect")
		if len(rects) != result.Stylized {
			t.Fatalf("scale %v: expected %d fills, got %d", tt.scale, result.Stylized, len(rects))
		}
		// First stylized cell is (0, 8).
		inset := (10 - tt.side) / 2
		want := pipeline.Rect{X: 20 + 80 + inset, Y: 20 + inset, W: tt.side, H: tt.side}
		if math.Abs(rects[0].Rect.X-want.X) > 1e-9 || math.Abs(rects[0].Rect.W-want.W) > 1e-9 || math.Abs(rects[0].Rect.Y-want.Y) > 1e-9 {
			t.Errorf("scale %v: first dot = %+v, want %+v", tt.scale, rects[0].Rect, want)
		}
	}
}

func TestStage_LightCellsUnpainted(t *testing.T) {
	m := mocks.NewMatrix(1)
	m.DarkFunc = func(row, col int) bool { return false }
	surface := mocks.NewSurface(250, 250)

	result := execute(t, pipeline.ModulesInput{
		Surface: surface,
		Matrix:  m,
		Plan:    gridPlan(21),
		Style:   pipeline.ModuleStyle{DotScale: 0.35},
	})

	if result.Stylized != 0 || len(surface.Ops) != 0 {
		t.Errorf("expected no drawing for an all-light matrix, got %d ops", len(surface.Ops))
	}
}

func TestStage_CircleBlocks(t *testing.T) {
	surface := mocks.NewSurface(250, 250)

	result := execute(t, pipeline.ModulesInput{
		Surface: surface,
		Matrix:  mocks.NewMatrix(1),
		Plan:    gridPlan(21),
		Style:   pipeline.ModuleStyle{DotScale: 0.5, Block: pipeline.BlockCircle},
	})

	circles := surface.OpsOfKind("circle")
	if len(circles) != result.Stylized {
		t.Fatalf("expected %d circles, got %d", result.Stylized, len(circles))
	}
	if circles[0].Radius != 2.5 {
		t.Errorf("expected radius 2.5, got %v", circles[0].Radius)
	}
	if len(surface.OpsOfKind("rect")) != 0 {
		t.Error("circle blocks should not fill rectangles")
	}
}

func TestStage_ProtectedCellsFullSize(t *testing.T) {
	m := mocks.NewMatrix(7, 6, 22, 38)
	p := gridPlan(45)
	region := protect.NewClassifier(m, p, pipeline.ProtectionPolicy{Alignment: true, Timing: true})

	for _, scale := range []float64{0.1, 0.35, 0.9} {
		surface := mocks.NewSurface(p.FinalSize, p.FinalSize)

		result := execute(t, pipeline.ModulesInput{
			Surface: surface,
			Matrix:  m,
			Plan:    p,
			Region:  region,
			Style:   pipeline.ModuleStyle{DotScale: scale},
		})

		if result.FullSize == 0 {
			t.Fatalf("scale %v: expected full-size cells", scale)
		}
		full := 0
		for _, op := range surface.OpsOfKind("rect") {
			col := int((op.Rect.X - 20) / 10)
			row := int((op.Rect.Y - 20) / 10)
			kind := region.Classify(row, col)
			if kind == pipeline.ZoneAlignment || kind == pipeline.ZoneTiming {
				full++
				if op.Rect.W != 10 || op.Rect.H != 10 {
					t.Errorf("scale %v: protected cell (%d,%d) painted at %vx%v", scale, row, col, op.Rect.W, op.Rect.H)
				}
			}
		}
		if full != result.FullSize {
			t.Errorf("scale %v: counted %d full-size fills, result says %d", scale, full, result.FullSize)
		}
	}
}

func TestStage_NoPaintUnderLogo(t *testing.T) {
	m := mocks.NewMatrix(1)
	p := gridPlan(21)
	region := protect.NewClassifier(m, p, pipeline.ProtectionPolicy{})
	plate := pipeline.Rect{X: 80, Y: 80, W: 50, H: 50}
	region.RegisterLogo(plate)
	surface := mocks.NewSurface(250, 250)

	result := execute(t, pipeline.ModulesInput{
		Surface: surface,
		Matrix:  m,
		Plan:    p,
		Region:  region,
		Style:   pipeline.ModuleStyle{DotScale: 1},
	})

	if result.Suppressed != 25 {
		t.Errorf("expected 25 suppressed cells, got %d", result.Suppressed)
	}
	onSurface := p.ToSurface(plate)
	for _, op := range surface.Ops {
		if op.Rect.Intersects(onSurface) {
			t.Errorf("%s paint at %+v intersects the logo plate %+v", op.Kind, op.Rect, onSurface)
		}
	}
}

func TestStage_MaskedDots(t *testing.T) {
	m := mocks.NewMatrix(1)
	m.DarkFunc = func(row, col int) bool { return (row+col)%2 == 0 }
	mask := image.NewNRGBA(image.Rect(0, 0, 250, 250))
	surface := mocks.NewSurface(250, 250)

	result := execute(t, pipeline.ModulesInput{
		Surface: surface,
		Matrix:  m,
		Plan:    gridPlan(21),
		Style: pipeline.ModuleStyle{
			DotScale:   1,
			MaskedDots: true,
			Mask:       mask,
		},
	})

	if result.Stylized+result.MaskedLight != 21*21-3*64 {
		t.Errorf("expected every non-finder cell painted, got %d dark + %d light", result.Stylized, result.MaskedLight)
	}

	images := surface.OpsOfKind("image")
	rects := surface.OpsOfKind("rect")
	if len(images) != len(rects) || len(images) != result.Stylized+result.MaskedLight {
		t.Fatalf("expected one blit and one overlay per cell, got %d/%d", len(images), len(rects))
	}

	// Cell (0, 8) is dark: blit of the mask region then a dark overlay.
	if got := images[0].Image.Bounds(); got != image.Rect(100, 20, 110, 30) {
		t.Errorf("expected mask region (100,20)-(110,30), got %v", got)
	}
	if rects[0].Color != DarkOverlay {
		t.Errorf("dark cell: expected dark overlay, got %v", rects[0].Color)
	}
	// Cell (0, 9) is light.
	if rects[1].Color != LightOverlay {
		t.Errorf("light cell: expected light overlay, got %v", rects[1].Color)
	}
}

func TestStage_MaskedCircles(t *testing.T) {
	surface := mocks.NewSurface(250, 250)
	mask := image.NewNRGBA(image.Rect(0, 0, 250, 250))

	execute(t, pipeline.ModulesInput{
		Surface: surface,
		Matrix:  mocks.NewMatrix(1),
		Plan:    gridPlan(21),
		Style: pipeline.ModuleStyle{
			DotScale:   0.5,
			Block:      pipeline.BlockCircle,
			MaskedDots: true,
			Mask:       mask,
		},
	})

	fills := surface.OpsOfKind("circle-image")
	if len(fills) != 21*21-3*64 {
		t.Fatalf("expected one masked circle per non-finder cell, got %d", len(fills))
	}
	if fills[0].Radius != 2.5 || fills[0].Image != mask {
		t.Errorf("expected the full mask at radius 2.5, got %+v", fills[0])
	}
	if overlays := surface.OpsOfKind("circle"); len(overlays) != len(fills) {
		t.Errorf("expected an overlay per masked circle, got %d", len(overlays))
	}
	// no per-cell clip masks
	if clips := surface.OpsOfKind("clip"); len(clips) != 0 {
		t.Errorf("expected no clips, got %d", len(clips))
	}
}

func TestStage_DarkColor(t *testing.T) {
	surface := mocks.NewSurface(250, 250)
	purple := color.RGBA{R: 128, B: 128, A: 255}

	execute(t, pipeline.ModulesInput{
		Surface: surface,
		Matrix:  mocks.NewMatrix(1),
		Plan:    gridPlan(21),
		Style:   pipeline.ModuleStyle{DotScale: 0.35, Dark: purple},
	})

	for _, op := range surface.OpsOfKind("rect") {
		if op.Color != purple {
			t.Fatalf("expected purple fill, got %v", op.Color)
		}
	}
}
