package scene

import (
	"encoding/json"

	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/geometry"
	"github.com/df07/cg-tracing/pkg/raster"
	"github.com/df07/cg-tracing/pkg/texture"
	"github.com/pkg/errors"
)

type vec3JSON [3]float64

func (v vec3JSON) toVec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

type transformStepJSON struct {
	Type   string   `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Z      float64  `json:"z"`
	Axis   string   `json:"axis"`
	Degree float64  `json:"degree"`
	Radian float64  `json:"radian"`
	Point  vec3JSON `json:"point"`
	Line   vec3JSON `json:"line"`
}

func parseTransform(steps []transformStepJSON) *core.Transform {
	seq := make([]core.TransformStep, len(steps))
	for i, s := range steps {
		seq[i] = core.TransformStep{
			Kind: s.Type, X: s.X, Y: s.Y, Z: s.Z, Axis: s.Axis,
			Degree: s.Degree, Radian: s.Radian,
		}
		if s.Type == "rotate_line" || s.Type == "rotate_line_radian" {
			seq[i].X, seq[i].Y, seq[i].Z = s.Point[0], s.Point[1], s.Point[2]
			seq[i].LineVec = s.Line.toVec3()
		}
	}
	return core.NewTransform(seq)
}

type textureJSON struct {
	Type        string   `json:"type"`
	Emission    vec3JSON `json:"emission"`
	Color       vec3JSON `json:"color"`
	Material    string   `json:"material"`
	File        string   `json:"file"`
	WidthRatio  float64  `json:"width_ratio"`
	HeightRatio float64  `json:"height_ratio"`
}

func parseTexture(t textureJSON) (texture.Texture, error) {
	mat, ok := texture.ParseMaterial(t.Material)
	if !ok {
		return nil, errors.Errorf("scene: unknown material %q", t.Material)
	}

	switch t.Type {
	case "raw", "":
		return texture.NewRaw(t.Emission.toVec3(), t.Color.toVec3(), mat), nil
	case "image":
		backing, err := loadImageFile(t.File)
		if err != nil {
			return nil, errors.Wrapf(err, "scene: loading texture image %s", t.File)
		}
		img := texture.NewImageTexture(backing, mat, t.WidthRatio, t.HeightRatio)
		img.EmissionBase = t.Emission.toVec3()
		return img, nil
	default:
		return nil, errors.Errorf("scene: unknown texture type %q", t.Type)
	}
}

func loadImageFile(path string) (*raster.Image, error) {
	return raster.LoadPNG(path)
}

type objectCommon struct {
	Transform []transformStepJSON `json:"transform"`
	Texture   textureJSON         `json:"texture"`
}

type sphereJSON struct {
	objectCommon
	Radius float64 `json:"radius"`
}

func newSphereFromJSON(raw json.RawMessage) (geometry.Primitive, error) {
	var v sphereJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(err, "scene: invalid sphere")
	}
	tex, err := parseTexture(v.Texture)
	if err != nil {
		return nil, err
	}
	return geometry.NewSphere(v.Radius, parseTransform(v.Transform), tex), nil
}

func newPlaneFromJSON(raw json.RawMessage) (geometry.Primitive, error) {
	var v objectCommon
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(err, "scene: invalid plane")
	}
	tex, err := parseTexture(v.Texture)
	if err != nil {
		return nil, err
	}
	return geometry.NewPlane(parseTransform(v.Transform), tex), nil
}

type meshJSON struct {
	objectCommon
	File string `json:"file"`
}

func newMeshFromJSON(raw json.RawMessage) (geometry.Primitive, error) {
	var v meshJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(err, "scene: invalid mesh")
	}
	tex, err := parseTexture(v.Texture)
	if err != nil {
		return nil, err
	}
	transform := parseTransform(v.Transform)
	p, n, uv, tris, err := loadOBJ(v.File, transform)
	if err != nil {
		return nil, errors.Wrapf(err, "scene: loading mesh %s", v.File)
	}
	return geometry.NewMesh(p, n, uv, tris, tex), nil
}

func newGLTFMeshFromJSON(raw json.RawMessage) (geometry.Primitive, error) {
	var v meshJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(err, "scene: invalid gltf mesh")
	}
	tex, err := parseTexture(v.Texture)
	if err != nil {
		return nil, err
	}
	transform := parseTransform(v.Transform)
	p, n, uv, tris, err := loadGLTF(v.File, transform)
	if err != nil {
		return nil, errors.Wrapf(err, "scene: loading gltf mesh %s", v.File)
	}
	return geometry.NewMesh(p, n, uv, tris, tex), nil
}

type bezierJSON struct {
	objectCommon
	Points [][2]float64 `json:"points"`
}

func newBezierFromJSON(raw json.RawMessage) (geometry.Primitive, error) {
	var v bezierJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(err, "scene: invalid bezier_rotate")
	}
	tex, err := parseTexture(v.Texture)
	if err != nil {
		return nil, err
	}
	if len(v.Points) < 2 {
		return nil, errors.New("scene: bezier_rotate needs at least 2 points")
	}
	return geometry.NewBezierOfRevolution(v.Points, tex, parseTransform(v.Transform)), nil
}
