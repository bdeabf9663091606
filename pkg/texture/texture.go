package texture

import (
	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/raster"
)

// Texture is either a Raw constant-color surface or an Image-backed one
// sampled by UV.
type Texture interface {
	// At returns the shading texture for the given UV coordinate.
	At(u, v float64) Raw
}

// Raw is the fully resolved, constant-per-point shading data the estimators
// consume: emission, albedo color, and material kind.
type Raw struct {
	Emission core.Vec3
	Color    core.Vec3
	Material Material
}

// NewRaw builds a constant Texture backed by a single Raw value.
func NewRaw(emission, color core.Vec3, material Material) Texture {
	return rawTexture{Raw{Emission: emission, Color: color, Material: material}}
}

type rawTexture struct{ raw Raw }

func (t rawTexture) At(u, v float64) Raw { return t.raw }

// Image is an image-backed texture. UV sampling repeat-wraps the backing
// image scaled by WidthRatio/HeightRatio; wherever the sampled pixel's alpha
// channel is greater than zero the surface is forced to Diffuse, otherwise
// the texture's declared Material applies; the color is always the sampled
// pixel's.
type Image struct {
	Backing      *raster.Image
	Material     Material
	WidthRatio   float64 // stored as 1/width_ratio from the scene file, matching the Rust loader
	HeightRatio  float64
	EmissionBase core.Vec3
}

// NewImageTexture wraps a decoded raster.Image with the UV scaling ratios
// from the scene file (already inverted, per the original loader).
func NewImageTexture(backing *raster.Image, material Material, widthRatio, heightRatio float64) *Image {
	return &Image{
		Backing:     backing,
		Material:    material,
		WidthRatio:  1.0 / widthRatio,
		HeightRatio: 1.0 / heightRatio,
	}
}

// At samples the backing image at the repeat-wrapped pixel implied by (u, v).
func (t *Image) At(u, v float64) Raw {
	x := int(u * float64(t.Backing.W) * t.WidthRatio)
	y := int(v * float64(t.Backing.H) * t.HeightRatio)
	px := t.Backing.GetRepeat(x, y)
	color := core.NewVec3(px.R, px.G, px.B)
	material := t.Material
	if px.A > 0 {
		material = Diffuse
	}
	return Raw{Emission: t.EmissionBase, Color: color, Material: material}
}
