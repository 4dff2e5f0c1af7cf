package ggrenderer

import (
	"bytes"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgMinRaster is the minimum side used when rasterizing an SVG so that
// small view boxes stay sharp once scaled onto a surface.
const svgMinRaster = 512

func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.TrimSpace(head)
	return bytes.HasPrefix(head, []byte("<svg")) ||
		(bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg")))
}

func decodeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse SVG: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = svgMinRaster, svgMinRaster
	}
	scale := 1.0
	if longest := max(w, h); longest < svgMinRaster {
		scale = svgMinRaster / longest
	}
	outW, outH := int(w*scale+0.5), int(h*scale+0.5)

	icon.SetTarget(0, 0, float64(outW), float64(outH))
	img := image.NewRGBA(image.Rect(0, 0, outW, outH))
	scanner := rasterx.NewScannerGV(outW, outH, img, img.Bounds())
	raster := rasterx.NewDasher(outW, outH, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}
