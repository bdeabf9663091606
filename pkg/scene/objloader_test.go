package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/cg-tracing/pkg/core"
)

func writeTempOBJ(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.obj")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp OBJ: %v", err)
	}
	return path
}

func TestLoadOBJSingleTriangleWithFaceNormalFallback(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)
	p, n, uv, tris, err := loadOBJ(path, core.Identity3())
	if err != nil {
		t.Fatalf("loadOBJ: %v", err)
	}
	if len(p) != 3 || len(tris) != 1 {
		t.Fatalf("got %d vertices, %d triangles; want 3, 1", len(p), len(tris))
	}
	if uv != nil {
		t.Errorf("expected no UVs when the file declares none, got %v", uv)
	}
	want := core.NewVec3(0, 0, 1)
	for i, got := range n {
		if got != want {
			t.Errorf("normal[%d] = %v, want face-normal fallback %v", i, got, want)
		}
	}
}

func TestLoadOBJWithExplicitNormalsAndUVs(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 0 1
f 1/1/1 2/2/1 3/3/1
`)
	p, n, uv, tris, err := loadOBJ(path, core.Identity3())
	if err != nil {
		t.Fatalf("loadOBJ: %v", err)
	}
	if len(p) != 3 || len(tris) != 1 || len(uv) != 3 {
		t.Fatalf("got %d positions, %d triangles, %d uvs", len(p), len(tris), len(uv))
	}
	for i, got := range n {
		if got != core.NewVec3(0, 0, 1) {
			t.Errorf("normal[%d] = %v, want explicit (0,0,1)", i, got)
		}
	}
}

func TestLoadOBJRejectsNonTriangularFace(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
f 1 2 3 4
`)
	if _, _, _, _, err := loadOBJ(path, core.Identity3()); err == nil {
		t.Errorf("expected an error for a quad face")
	}
}

func TestLoadOBJRejectsOutOfRangeVertexIndex(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 9
`)
	if _, _, _, _, err := loadOBJ(path, core.Identity3()); err == nil {
		t.Errorf("expected an error for an out-of-range vertex index")
	}
}

func TestLoadOBJAppliesTransform(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)
	transform := core.NewTransform([]core.TransformStep{{Kind: "shift", X: 5, Y: 0, Z: 0}})
	p, _, _, _, err := loadOBJ(path, transform)
	if err != nil {
		t.Fatalf("loadOBJ: %v", err)
	}
	want := core.NewVec3(5, 0, 0)
	if p[0] != want {
		t.Errorf("transformed vertex 0 = %v, want %v", p[0], want)
	}
}

func TestLoadOBJMissingFileReturnsError(t *testing.T) {
	if _, _, _, _, err := loadOBJ(filepath.Join(t.TempDir(), "missing.obj"), core.Identity3()); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
