// Package raster holds the HDR pixel buffer written by the renderer and the
// PPM/PNG encoders used to persist it.
package raster

import "github.com/df07/cg-tracing/pkg/core"

// RGBA is a single HDR pixel: linear radiance in R/G/B plus an alpha channel
// used only by image-backed textures to signal material overrides.
type RGBA struct {
	R, G, B, A float64
}

// Image is a w x h grid of HDR pixels, row-major with (0,0) at the top-left
// as stored; callers decide which way is "up" when writing into it.
type Image struct {
	W, H int
	Pix  []RGBA
}

// New allocates a black w x h image.
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]RGBA, w*h)}
}

// Set writes the color at (x, y), discarding any existing alpha.
func (img *Image) Set(x, y int, c core.Vec3) {
	img.Pix[y*img.W+x] = RGBA{R: c.X, G: c.Y, B: c.Z}
}

// At returns the raw pixel at (x, y).
func (img *Image) At(x, y int) RGBA {
	return img.Pix[y*img.W+x]
}

// GetRepeat samples the image with repeat (modulo) wrapping, so UV
// coordinates outside [0, w) x [0, h) still resolve to a pixel.
func (img *Image) GetRepeat(x, y int) RGBA {
	x = ((x % img.W) + img.W) % img.W
	y = ((y % img.H) + img.H) % img.H
	return img.Pix[y*img.W+x]
}

// Luminance is the Rec.601 luma of an RGBA sample.
func (c RGBA) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}
