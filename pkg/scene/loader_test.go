package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempSceneFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp scene file: %v", err)
	}
	return path
}

const minimalPTScene = `{
  "width": 16, "height": 16,
  "camera": {
    "origin": [0,0,-2], "direct": [0,0,1],
    "view_angle_scale": 0.5, "plane_distance": 0, "focal_distance": 1, "aperture": 0
  },
  "max_depth": 6, "thread_num": 1, "stack_size": 0,
  "Na": 1.0, "Ng": 1.5,
  "renderer": {"type": "pt", "sample": 8},
  "objects": [
    {"type": "plane", "texture": {"material": "diffuse", "color": [0.7,0.7,0.7]}},
    {"type": "sphere", "radius": 1, "transform": [{"type":"shift","z":5}],
     "texture": {"material": "diffuse", "emission": [5,5,5]}}
  ]
}`

func TestLoadParsesMinimalPTScene(t *testing.T) {
	path := writeTempSceneFile(t, minimalPTScene)
	s, err := Load(path, NewRegistry())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Width != 16 || s.Height != 16 {
		t.Errorf("dims = %dx%d, want 16x16", s.Width, s.Height)
	}
	if s.Renderer.PT == nil {
		t.Fatalf("expected a PT renderer config")
	}
	if s.Renderer.PT.Sample != 8 {
		t.Errorf("sample = %d, want 8 (already a multiple of 4)", s.Renderer.PT.Sample)
	}
	if len(s.Primitives) != 2 {
		t.Errorf("got %d primitives, want 2", len(s.Primitives))
	}
}

func TestLoadRoundsSampleDownToMultipleOfFour(t *testing.T) {
	contents := `{"width":1,"height":1,"camera":{"direct":[0,0,1],"focal_distance":1},
	"renderer":{"type":"pt","sample":10},"objects":[]}`
	path := writeTempSceneFile(t, contents)
	s, err := Load(path, NewRegistry())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Renderer.PT.Sample != 8 {
		t.Errorf("sample = %d, want 8 (10 rounded down to a multiple of 4)", s.Renderer.PT.Sample)
	}
}

func TestLoadSPPMRenderer(t *testing.T) {
	contents := `{"width":1,"height":1,"camera":{"direct":[0,0,1],"focal_distance":1},
	"renderer":{"type":"sppm","view_point_sample":4,"photon_sample":1000,
	"radius":1.0,"radius_decay":0.8,"rounds":3,"light_pos":[0,5,0],"light_r":1.5},
	"objects":[]}`
	path := writeTempSceneFile(t, contents)
	s, err := Load(path, NewRegistry())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Renderer.SPPM == nil {
		t.Fatalf("expected an SPPM renderer config")
	}
	if s.Renderer.SPPM.Rounds != 3 {
		t.Errorf("rounds = %d, want 3", s.Renderer.SPPM.Rounds)
	}
}

func TestLoadUnknownRendererTypeErrors(t *testing.T) {
	contents := `{"width":1,"height":1,"camera":{"direct":[0,0,1],"focal_distance":1},
	"renderer":{"type":"bdpt"},"objects":[]}`
	path := writeTempSceneFile(t, contents)
	if _, err := Load(path, NewRegistry()); err == nil {
		t.Errorf("expected an error for an unknown renderer type")
	}
}

func TestLoadUnknownObjectTypeErrors(t *testing.T) {
	contents := `{"width":1,"height":1,"camera":{"direct":[0,0,1],"focal_distance":1},
	"renderer":{"type":"pt","sample":4},"objects":[{"type":"teapot"}]}`
	path := writeTempSceneFile(t, contents)
	if _, err := Load(path, NewRegistry()); err == nil {
		t.Errorf("expected an error for an unknown object type")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), NewRegistry()); err == nil {
		t.Errorf("expected an error for a missing scene file")
	}
}

func TestLoadMalformedJSONErrors(t *testing.T) {
	path := writeTempSceneFile(t, `{not valid json`)
	if _, err := Load(path, NewRegistry()); err == nil {
		t.Errorf("expected an error for malformed JSON")
	}
}
