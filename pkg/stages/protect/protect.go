// Package protect implements the protected-zone classification stage.
package protect

import (
	"context"

	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
)

// finderSpan is the side of a finder zone: the 7x7 pattern plus separator.
const finderSpan = 8

// alignmentRadius is the distance from an alignment center to the edge of
// its 5x5 zone.
const alignmentRadius = 2

// Stage builds the protected region for a render.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new protect stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("protect")}
}

// Execute classifies the module grid.
func (s *Stage) Execute(ctx context.Context, input pipeline.ProtectInput) (pipeline.ProtectResult, error) {
	c := NewClassifier(input.Matrix, input.Plan, input.Policy)
	s.logger.Debug("Protected %d zones (%d alignment)", len(c.zones), len(c.centers))
	return pipeline.ProtectResult{Region: c}, nil
}

// Classifier decides, cell by cell, which modules are structural.
// Module zones are fixed at construction; the logo zone is registered later
// and tested against each cell's pixel rectangle.
type Classifier struct {
	n       int
	plan    pipeline.RenderPlan
	grid    []pipeline.ZoneKind
	zones   []pipeline.Zone
	centers [][2]int
	logo    *pipeline.Rect
}

// NewClassifier builds the finder, timing and alignment zones for a matrix.
func NewClassifier(matrix ports.ModuleMatrix, plan pipeline.RenderPlan, policy pipeline.ProtectionPolicy) *Classifier {
	n := matrix.ModuleCount()
	c := &Classifier{
		n:    n,
		plan: plan,
		grid: make([]pipeline.ZoneKind, n*n),
	}

	// Lowest precedence first; later zones overwrite earlier ones.
	if policy.Timing {
		c.addZone(pipeline.ZoneTiming, 0, 6, n, 1)
		c.addZone(pipeline.ZoneTiming, 6, 0, 1, n)
	}

	if policy.Alignment {
		centers := matrix.AlignmentCenters()
		for _, row := range centers {
			for _, col := range centers {
				if overlapsFinder(row, col, n) {
					continue
				}
				c.centers = append(c.centers, [2]int{row, col})
				c.addZone(pipeline.ZoneAlignment,
					col-alignmentRadius, row-alignmentRadius,
					2*alignmentRadius+1, 2*alignmentRadius+1)
			}
		}
	}

	c.addZone(pipeline.ZoneFinder, 0, 0, finderSpan, finderSpan)
	c.addZone(pipeline.ZoneFinder, n-finderSpan, 0, finderSpan, finderSpan)
	c.addZone(pipeline.ZoneFinder, 0, n-finderSpan, finderSpan, finderSpan)

	return c
}

// addZone records a module-space zone and stamps it into the grid.
// x is the column, y the row.
func (c *Classifier) addZone(kind pipeline.ZoneKind, x, y, w, h int) {
	c.zones = append(c.zones, pipeline.Zone{
		Kind: kind,
		Rect: pipeline.Rect{X: float64(x), Y: float64(y), W: float64(w), H: float64(h)},
	})
	for row := max(y, 0); row < min(y+h, c.n); row++ {
		for col := max(x, 0); col < min(x+w, c.n); col++ {
			c.grid[row*c.n+col] = kind
		}
	}
}

// InFinder reports whether a cell lies in one of the three finder zones.
func InFinder(row, col, n int) bool {
	return (col < finderSpan && (row < finderSpan || row >= n-finderSpan)) ||
		(col >= n-finderSpan && row < finderSpan)
}

// overlapsFinder reports whether the 5x5 box around (row, col) touches a
// finder zone.
func overlapsFinder(row, col, n int) bool {
	for r := row - alignmentRadius; r <= row+alignmentRadius; r++ {
		for c := col - alignmentRadius; c <= col+alignmentRadius; c++ {
			if InFinder(r, c, n) {
				return true
			}
		}
	}
	return false
}

// Classify returns the zone kind of a cell.
func (c *Classifier) Classify(row, col int) pipeline.ZoneKind {
	if row < 0 || col < 0 || row >= c.n || col >= c.n {
		return pipeline.ZoneNone
	}
	if c.logo != nil && c.plan.CellRect(row, col).Intersects(*c.logo) {
		return pipeline.ZoneLogo
	}
	return c.grid[row*c.n+col]
}

// RegisterLogo adds the logo protection rectangle in viewport pixels.
func (c *Classifier) RegisterLogo(r pipeline.Rect) {
	c.logo = &r
}

// LogoRegistered reports whether a logo rectangle was registered.
func (c *Classifier) LogoRegistered() bool {
	return c.logo != nil
}

// AlignmentCenters returns the centers that received a zone.
func (c *Classifier) AlignmentCenters() [][2]int {
	out := make([][2]int, len(c.centers))
	copy(out, c.centers)
	return out
}

// Zones returns every registered rectangle, module zones first.
func (c *Classifier) Zones() []pipeline.Zone {
	out := make([]pipeline.Zone, 0, len(c.zones)+1)
	out = append(out, c.zones...)
	if c.logo != nil {
		out = append(out, pipeline.Zone{Kind: pipeline.ZoneLogo, Rect: *c.logo, Pixel: true})
	}
	return out
}

// Ensure Classifier implements pipeline.ProtectedRegion
var _ pipeline.ProtectedRegion = (*Classifier)(nil)
