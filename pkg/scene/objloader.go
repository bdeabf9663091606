package scene

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/geometry"
	"github.com/pkg/errors"
)

type objVertexRef struct {
	v, vt, vn int // 0-based; -1 if absent
}

// loadOBJ reads the Wavefront OBJ subset from §6: v, vn, vt, and triangular
// f lines (2- or 3-element per-vertex indices; any face with more than 3
// vertices is a fatal asset error). Positions and normals are transformed
// into world space by transform before being handed back.
func loadOBJ(path string, transform *core.Transform) (p, n []core.Vec3, uv [][2]float64, tris []geometry.Triangle, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "cannot open OBJ %s", path)
	}
	defer f.Close()

	var positions, normals []core.Vec3
	var texcoords [][2]float64
	var faces [][3]objVertexRef

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, perr := parseFloats(fields[1:], 3)
			if perr != nil {
				return nil, nil, nil, nil, objLineError(path, lineNo, perr)
			}
			positions = append(positions, core.NewVec3(v[0], v[1], v[2]))
		case "vn":
			v, perr := parseFloats(fields[1:], 3)
			if perr != nil {
				return nil, nil, nil, nil, objLineError(path, lineNo, perr)
			}
			normals = append(normals, core.NewVec3(v[0], v[1], v[2]))
		case "vt":
			v, perr := parseFloats(fields[1:], 2)
			if perr != nil {
				return nil, nil, nil, nil, objLineError(path, lineNo, perr)
			}
			texcoords = append(texcoords, [2]float64{v[0], v[1]})
		case "f":
			refs := fields[1:]
			if len(refs) != 3 {
				return nil, nil, nil, nil, errors.Errorf("%s:%d: non-triangular face (%d vertices)", path, lineNo, len(refs))
			}
			var face [3]objVertexRef
			for i, r := range refs {
				ref, perr := parseVertexRef(r)
				if perr != nil {
					return nil, nil, nil, nil, objLineError(path, lineNo, perr)
				}
				face[i] = ref
			}
			faces = append(faces, face)
		}
	}
	if serr := scanner.Err(); serr != nil {
		return nil, nil, nil, nil, errors.Wrapf(serr, "reading %s", path)
	}

	hasUV := false
	for _, face := range faces {
		for _, ref := range face {
			if ref.vt >= 0 {
				hasUV = true
			}
		}
	}

	combined := map[objVertexRef]int{}
	get := func(ref objVertexRef) (int, error) {
		if idx, ok := combined[ref]; ok {
			return idx, nil
		}
		if ref.v < 0 || ref.v >= len(positions) {
			return 0, errors.Errorf("%s: vertex index %d out of range", path, ref.v+1)
		}
		idx := len(p)
		p = append(p, transform.Value.MulPoint(positions[ref.v]))
		if ref.vn >= 0 {
			if ref.vn >= len(normals) {
				return 0, errors.Errorf("%s: normal index %d out of range", path, ref.vn+1)
			}
			n = append(n, transform.Value.MulDirection(normals[ref.vn]).Normalize())
		} else {
			n = append(n, core.Zero) // filled in with a face-normal fallback below
		}
		if hasUV {
			if ref.vt >= 0 {
				if ref.vt >= len(texcoords) {
					return 0, errors.Errorf("%s: texcoord index %d out of range", path, ref.vt+1)
				}
				uv = append(uv, texcoords[ref.vt])
			} else {
				uv = append(uv, [2]float64{0, 0})
			}
		}
		combined[ref] = idx
		return idx, nil
	}

	for _, face := range faces {
		var tri geometry.Triangle
		idx := [3]int{}
		for k, ref := range face {
			i, gerr := get(ref)
			if gerr != nil {
				return nil, nil, nil, nil, gerr
			}
			idx[k] = i
		}
		tri = geometry.Triangle{I: idx[0], J: idx[1], K: idx[2]}
		if n[idx[0]] == core.Zero && n[idx[1]] == core.Zero && n[idx[2]] == core.Zero {
			faceNorm := p[idx[1]].Subtract(p[idx[0]]).Cross(p[idx[2]].Subtract(p[idx[0]])).Normalize()
			n[idx[0]], n[idx[1]], n[idx[2]] = faceNorm, faceNorm, faceNorm
		}
		tris = append(tris, tri)
	}

	return p, n, uv, tris, nil
}

func parseVertexRef(field string) (objVertexRef, error) {
	parts := strings.Split(field, "/")
	ref := objVertexRef{v: -1, vt: -1, vn: -1}

	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		return ref, errors.Errorf("invalid vertex index %q", parts[0])
	}
	ref.v = idx - 1

	if len(parts) >= 2 && parts[1] != "" {
		idx, err := strconv.Atoi(parts[1])
		if err != nil {
			return ref, errors.Errorf("invalid texcoord index %q", parts[1])
		}
		ref.vt = idx - 1
	}
	if len(parts) >= 3 && parts[2] != "" {
		idx, err := strconv.Atoi(parts[2])
		if err != nil {
			return ref, errors.Errorf("invalid normal index %q", parts[2])
		}
		ref.vn = idx - 1
	}
	return ref, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, errors.Errorf("expected %d numbers, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Errorf("invalid number %q", fields[i])
		}
		out[i] = v
	}
	return out, nil
}

func objLineError(path string, line int, err error) error {
	return errors.Wrapf(err, "%s:%d", path, line)
}
