// Package export implements the image export stage.
package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/user/qrstyle/pkg/pipeline"
	"github.com/user/qrstyle/pkg/ports"
)

// Stage encodes the final image.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new export stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("export"),
	}
}

// Execute encodes the image as PNG (the default), JPEG or SVG. SVG output
// embeds the PNG encoding in an <image> element.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	var result pipeline.ExportResult
	if input.Image == nil {
		return result, fmt.Errorf("no image to export")
	}

	format := input.Format
	if format == ports.FormatAuto {
		format = ports.FormatPNG
	}

	var (
		data []byte
		err  error
	)
	b := input.Image.Bounds()
	switch format {
	case ports.FormatJPEG:
		data, err = s.renderer.EncodeImage(input.Image, ports.FormatJPEG, input.Quality)
	case ports.FormatSVG:
		var png []byte
		png, err = s.renderer.EncodeImage(input.Image, ports.FormatPNG, 0)
		if err == nil {
			data = WrapSVG(png, b.Dx(), b.Dy())
		}
	default:
		format = ports.FormatPNG
		data, err = s.renderer.EncodeImage(input.Image, ports.FormatPNG, 0)
	}
	if err != nil {
		return result, fmt.Errorf("encode %s: %w", format, err)
	}

	mime := MIMEType(format)
	result.Output = ports.Output{
		Data:     data,
		MIMEType: mime,
		DataURI:  DataURI(mime, data),
		Width:    b.Dx(),
		Height:   b.Dy(),
	}

	s.logger.Debug("Encoded %s: %d bytes", format, len(data))
	return result, nil
}

// MIMEType returns the media type of an export format.
func MIMEType(format ports.ImageFormat) string {
	switch format {
	case ports.FormatJPEG:
		return "image/jpeg"
	case ports.FormatSVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// DataURI returns a base64 data URI.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// WrapSVG returns SVG markup that displays png at width x height.
func WrapSVG(png []byte, width, height int) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	fmt.Fprintf(&sb, `<image width="%d" height="%d" xlink:href="%s"/>`, width, height, DataURI("image/png", png))
	sb.WriteString(`</svg>`)
	return []byte(sb.String())
}
