package raster

import (
	goimage "image"
	"image/png"
	"os"

	"github.com/pkg/errors"
)

// LoadPNG reads an 8-bit PNG (with alpha, if present) into a linear HDR
// Image for use as an image-backed texture. Alpha is preserved in the A
// channel so the texture layer can apply its "alpha>0 forces Diffuse" rule.
func LoadPNG(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open PNG %s", path)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode PNG %s", path)
	}

	bounds := src.Bounds()
	img := New(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Pix[(y-bounds.Min.Y)*img.W+(x-bounds.Min.X)] = toRGBA(src.At(x, y))
		}
	}
	return img, nil
}

func toRGBA(c goimage.Color) RGBA {
	r, g, b, a := c.RGBA()
	const max = float64(0xffff)
	return RGBA{R: float64(r) / max, G: float64(g) / max, B: float64(b) / max, A: float64(a) / max}
}
