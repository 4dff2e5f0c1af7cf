// Package plan implements the geometry planning stage.
package plan

import (
	"context"

	"github.com/user/qrstyle/pkg/pipeline"
)

// Stage derives the pixel geometry of a render.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new plan stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute computes the render plan.
func (s *Stage) Execute(ctx context.Context, input pipeline.PlanInput) (pipeline.RenderPlan, error) {
	return ComputePlan(input), nil
}

// ComputePlan maps the requested size onto whole-pixel modules.
//
// A negative margin, or one that would consume the whole output, falls back
// to 0. The module size is rounded up so the viewport never falls short of
// the requested area; the compositor resamples the card back to the
// requested size afterwards.
func ComputePlan(input pipeline.PlanInput) pipeline.RenderPlan {
	size := input.Size
	if size < 1 {
		size = 1
	}
	n := input.ModuleCount
	if n < 1 {
		n = 1
	}

	margin := input.Margin
	if margin < 0 || margin*2 >= size {
		margin = 0
	}

	divisor := n
	if input.Sizing == pipeline.SizeWithHalfModuleBorder {
		divisor = n + 1
	}
	moduleSize := ceilDiv(size-2*margin, divisor)
	if moduleSize < 1 {
		moduleSize = 1
	}

	viewport := moduleSize * n
	return pipeline.RenderPlan{
		RequestedSize: size,
		ModuleCount:   n,
		Margin:        margin,
		ModuleSize:    moduleSize,
		ViewportSize:  viewport,
		FinalSize:     viewport + 2*margin,
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
