package ggrenderer

import (
	"image"

	"github.com/user/qrstyle/pkg/ports"
)

// factors returns the Porter-Duff source and destination factors (0-255)
// for the given mode and alphas.
func factors(mode ports.BlendMode, sa, da uint32) (fs, fd uint32) {
	switch mode {
	case ports.BlendDestinationIn:
		return 0, sa
	case ports.BlendDestinationOver:
		return 255 - da, 255
	case ports.BlendXor:
		return 255 - da, 255 - sa
	case ports.BlendSourceIn:
		return da, 0
	default:
		return 255, 255 - sa
	}
}

// compose blends src onto dst in place. Both images hold premultiplied
// pixels and share the same origin. Where mask is non-nil, the result is
// interpolated with the untouched destination by the mask coverage, so
// pixels outside the clip keep their value even for destination-in.
func compose(dst, src *image.RGBA, mask *image.Alpha, mode ports.BlendMode) {
	b := dst.Bounds().Intersect(src.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		di := dst.PixOffset(b.Min.X, y)
		si := src.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, di, si = x+1, di+4, si+4 {
			cov := uint32(255)
			if mask != nil {
				cov = uint32(mask.AlphaAt(x, y).A)
				if cov == 0 {
					continue
				}
			}

			sa := uint32(src.Pix[si+3])
			da := uint32(dst.Pix[di+3])
			fs, fd := factors(mode, sa, da)

			for c := 0; c < 4; c++ {
				s := uint32(src.Pix[si+c])
				d := uint32(dst.Pix[di+c])
				out := (s*fs + d*fd + 127) / 255
				if out > 255 {
					out = 255
				}
				if cov < 255 {
					out = (out*cov + d*(255-cov) + 127) / 255
				}
				dst.Pix[di+c] = uint8(out)
			}
		}
	}
}
