package scene

import (
	"path/filepath"
	"testing"

	"github.com/df07/cg-tracing/pkg/core"
)

func TestLoadGLTFMissingFileErrors(t *testing.T) {
	_, _, _, _, err := loadGLTF(filepath.Join(t.TempDir(), "missing.gltf"), core.Identity3())
	if err == nil {
		t.Errorf("expected an error for a missing glTF file")
	}
}

func TestNewGLTFMeshFromJSONMissingFileErrors(t *testing.T) {
	raw := []byte(`{"texture": {"material": "diffuse"}, "file": "/no/such/file.gltf"}`)
	if _, err := newGLTFMeshFromJSON(raw); err == nil {
		t.Errorf("expected an error for a missing glTF mesh file")
	}
}

func TestNewGLTFMeshFromJSONInvalidJSONErrors(t *testing.T) {
	if _, err := newGLTFMeshFromJSON([]byte(`not json`)); err == nil {
		t.Errorf("expected an error for malformed JSON")
	}
}
