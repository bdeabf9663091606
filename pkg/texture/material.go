// Package texture holds the per-surface shading data: the material kind
// (Diffuse, Specular, Refractive) and the two texture flavors (constant
// Raw color, or Image-backed with UV sampling) that produce it.
package texture

// Material is the tagged BSDF kind a surface point scatters according to.
type Material int

const (
	// Diffuse scatters cosine-weighted over the hemisphere.
	Diffuse Material = iota
	// Specular reflects perfectly (mirror).
	Specular
	// Refractive is a Fresnel-blended dielectric.
	Refractive
)

func (m Material) String() string {
	switch m {
	case Diffuse:
		return "diffuse"
	case Specular:
		return "specular"
	case Refractive:
		return "refractive"
	default:
		return "unknown"
	}
}

// ParseMaterial maps a scene-file material name to its Material value.
func ParseMaterial(s string) (Material, bool) {
	switch s {
	case "diffuse":
		return Diffuse, true
	case "specular":
		return Specular, true
	case "refractive":
		return Refractive, true
	default:
		return 0, false
	}
}
