package scene

import (
	"encoding/json"
	"os"

	"github.com/df07/cg-tracing/pkg/geometry"
	"github.com/pkg/errors"
)

type cameraJSON struct {
	Origin         vec3JSON `json:"origin"`
	Direct         vec3JSON `json:"direct"`
	ViewAngleScale float64  `json:"view_angle_scale"`
	PlaneDistance  float64  `json:"plane_distance"`
	FocalDistance  float64  `json:"focal_distance"`
	Aperture       float64  `json:"aperture"`
}

func (c cameraJSON) toCamera() Camera {
	return Camera{
		Origin: c.Origin.toVec3(), Direct: c.Direct.toVec3(),
		ViewAngleScale: c.ViewAngleScale, PlaneDistance: c.PlaneDistance,
		FocalDistance: c.FocalDistance, Aperture: c.Aperture,
	}
}

type rendererJSON struct {
	Type string `json:"type"`

	// pt
	Sample int `json:"sample"`

	// sppm
	ViewPointSample int      `json:"view_point_sample"`
	PhotonSample    int      `json:"photon_sample"`
	Radius          float64  `json:"radius"`
	RadiusDecay     float64  `json:"radius_decay"`
	Rounds          int      `json:"rounds"`
	LightPos        vec3JSON `json:"light_pos"`
	LightR          float64  `json:"light_r"`
}

func (r rendererJSON) toRenderer() (Renderer, error) {
	switch r.Type {
	case "pt":
		sample := r.Sample / 4 * 4 // rounded down to a multiple of 4 (four 2x2 sub-pixel strata)
		return Renderer{PT: &PTConfig{Sample: sample}}, nil
	case "sppm":
		return Renderer{SPPM: &SPPMConfig{
			ViewPointSample: r.ViewPointSample, PhotonSample: r.PhotonSample,
			Radius: r.Radius, RadiusDecay: r.RadiusDecay, Rounds: r.Rounds,
			LightPos: r.LightPos.toVec3(), LightR: r.LightR,
		}}, nil
	default:
		return Renderer{}, errors.Errorf("scene: unknown renderer type %q", r.Type)
	}
}

type sceneJSON struct {
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Camera    cameraJSON        `json:"camera"`
	MaxDepth  int               `json:"max_depth"`
	ThreadNum int               `json:"thread_num"`
	StackSize int               `json:"stack_size"`
	Na        float64           `json:"Na"`
	Ng        float64           `json:"Ng"`
	Renderer  rendererJSON      `json:"renderer"`
	Objects   []json.RawMessage `json:"objects"`
}

type objectTypeJSON struct {
	Type string `json:"type"`
}

// Load parses a scene file with registry, building every primitive through
// the registered factory for its "type" field. Config errors (bad JSON,
// unknown primitive/renderer type) and asset errors (missing OBJ/image
// files, malformed geometry) are both reported synchronously here and are
// fatal. Fields absent from the file are not detected: they keep their Go
// zero values.
func Load(path string, registry *Registry) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read scene %s", path)
	}

	var raw sceneJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "cannot parse scene %s", path)
	}

	renderer, err := raw.Renderer.toRenderer()
	if err != nil {
		return nil, err
	}

	primitives := make([]geometry.Primitive, 0, len(raw.Objects))
	for i, obj := range raw.Objects {
		var typ objectTypeJSON
		if err := json.Unmarshal(obj, &typ); err != nil {
			return nil, errors.Wrapf(err, "scene: object %d has no valid type", i)
		}
		prim, err := registry.build(typ.Type, obj)
		if err != nil {
			return nil, errors.Wrapf(err, "scene: object %d", i)
		}
		primitives = append(primitives, prim)
	}

	s := NewScene(raw.Width, raw.Height, raw.Camera.toCamera(), primitives,
		raw.MaxDepth, raw.ThreadNum, raw.StackSize, raw.Na, raw.Ng, renderer)
	if err := s.Init(); err != nil {
		return nil, errors.Wrap(err, "scene: initializing primitives")
	}
	return s, nil
}
