package raster

import (
	"bufio"
	"fmt"
	goimage "image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

const gamma = 2.2

// toByte tone-clamps a linear radiance value to [0, 1] via go-colorful's
// Color.Clamped (x is often well outside that range before this call, so the
// clamp does real work here, not just type dressing), then gamma-encodes the
// clamped value to an 8-bit channel.
func toByte(x float64) uint8 {
	clamped := colorful.Color{R: x, G: x, B: x}.Clamped()
	return uint8(math.Pow(clamped.R, 1.0/gamma)*255.0 + 0.5)
}

// EncodeRGB8 converts one HDR pixel to 8-bit sRGB-ish gamma-encoded bytes.
func EncodeRGB8(c RGBA) (r, g, b uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

// WritePPM writes the image as ASCII PPM (P3), gamma 2.2, per spec.
func (img *Image) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.W, img.H)
	for _, px := range img.Pix {
		r, g, b := EncodeRGB8(px)
		fmt.Fprintf(bw, "%d %d %d ", r, g, b)
	}
	return bw.Flush()
}

// SavePPM opens path and writes the image as PPM, wrapping any I/O error
// with the failing path so it surfaces clearly at the CLI boundary.
func (img *Image) SavePPM(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create PPM %s", path)
	}
	defer f.Close()
	if err := img.WritePPM(f); err != nil {
		return errors.Wrapf(err, "cannot write PPM %s", path)
	}
	return nil
}

// SavePNG writes the image as an 8-bit RGB PNG.
func (img *Image) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create PNG %s", path)
	}
	defer f.Close()

	out := goimage.NewRGBA(goimage.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			r, g, b := EncodeRGB8(img.At(x, y))
			out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	if err := png.Encode(f, out); err != nil {
		return errors.Wrapf(err, "cannot encode PNG %s", path)
	}
	return nil
}
