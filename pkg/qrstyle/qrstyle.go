package qrstyle

import (
	"context"
	"fmt"

	"github.com/user/qrstyle/pkg/adapters/fileoutput"
	"github.com/user/qrstyle/pkg/adapters/ggrenderer"
	"github.com/user/qrstyle/pkg/adapters/logger"
	"github.com/user/qrstyle/pkg/adapters/nullsink"
	"github.com/user/qrstyle/pkg/adapters/osfilesystem"
	"github.com/user/qrstyle/pkg/adapters/rscqr"
	"github.com/user/qrstyle/pkg/adapters/skip2qr"
	"github.com/user/qrstyle/pkg/adapters/yeqownqr"
	"github.com/user/qrstyle/pkg/orchestrator"
	"github.com/user/qrstyle/pkg/ports"
	"github.com/user/qrstyle/pkg/stages/background"
	"github.com/user/qrstyle/pkg/stages/composite"
	"github.com/user/qrstyle/pkg/stages/export"
	"github.com/user/qrstyle/pkg/stages/logo"
	"github.com/user/qrstyle/pkg/stages/modules"
	"github.com/user/qrstyle/pkg/stages/pattern"
	"github.com/user/qrstyle/pkg/stages/plan"
	"github.com/user/qrstyle/pkg/stages/protect"
)

// DefaultFileName is the file written by SaveFile when no path is given.
const DefaultFileName = "qr-code.png"

// NewEncoder returns the MatrixEncoder for engine.
func NewEncoder(engine Engine) ports.MatrixEncoder {
	switch engine {
	case EngineSkip2:
		return skip2qr.New()
	case EngineRSC:
		return rscqr.New()
	default:
		return yeqownqr.New()
	}
}

// NewStages wires the default render stages.
func NewStages(renderer ports.Renderer, sink ports.DebugSink, log ports.Logger) orchestrator.Stages {
	return orchestrator.Stages{
		Plan:       plan.NewStage(),
		Protect:    protect.NewStage(log),
		Background: background.NewStage(renderer, log),
		Modules:    modules.NewStage(log),
		Pattern:    pattern.NewStage(renderer, log),
		Composite:  composite.NewStage(renderer, logo.NewStage(log), sink, log),
		Export:     export.NewStage(renderer, log),
	}
}

// Generator encodes text and renders it with one orchestrator.
// A Generator is single-owner: calls must not overlap.
type Generator struct {
	orch    *orchestrator.Orchestrator
	encoder ports.MatrixEncoder
}

// NewGenerator creates a Generator on the given adapters.
func NewGenerator(renderer ports.Renderer, sink ports.DebugSink, log ports.Logger) *Generator {
	return &Generator{
		orch: orchestrator.New(NewStages(renderer, sink, log), renderer, sink, log),
	}
}

// WithEncoder replaces the engine selected by Options.Engine.
func (g *Generator) WithEncoder(encoder ports.MatrixEncoder) *Generator {
	g.encoder = encoder
	return g
}

// Render encodes text and paints it with opts.
func (g *Generator) Render(ctx context.Context, text string, opts Options) (orchestrator.Result, error) {
	encoder := g.encoder
	if encoder == nil {
		encoder = NewEncoder(opts.Engine)
	}

	matrix, err := encoder.Encode(text, opts.ECLevel)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("encode: %w", err)
	}

	return g.orch.Render(ctx, matrix, opts.ToOrchestratorConfig())
}

// Last returns the last rendered result.
func (g *Generator) Last() (orchestrator.Result, bool) {
	return g.orch.Last()
}

// Clear drops the last rendered result.
func (g *Generator) Clear() {
	g.orch.Clear()
}

// Generate renders text with opts.
// This is a convenience function that uses default adapters.
// For custom dependencies (e.g., a console logger or a debug sink), use
// NewGenerator instead.
func Generate(ctx context.Context, text string, opts Options) (orchestrator.Result, error) {
	return defaultGenerator().Render(ctx, text, opts)
}

// SaveFile renders text with opts and writes the export to path.
// An empty path writes DefaultFileName in the working directory.
func SaveFile(ctx context.Context, path, text string, opts Options) (orchestrator.Result, error) {
	if path == "" {
		path = DefaultFileName
	}

	result, err := Generate(ctx, text, opts)
	if err != nil {
		return result, err
	}

	if err := fileoutput.New(path, osfilesystem.New()).Accept(ctx, result.Output); err != nil {
		return result, err
	}
	return result, nil
}

func defaultGenerator() *Generator {
	return NewGenerator(ggrenderer.New(), nullsink.New(), logger.NewNoop())
}
