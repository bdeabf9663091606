package scene

import (
	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/geometry"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// loadGLTF reads the first mesh primitive of a .gltf/.glb document (see
// firstPrimitive) and returns it in the same (p, n, uv, tris) shape loadOBJ
// produces, so newGLTFMeshFromJSON can feed it into geometry.NewMesh just as
// newMeshFromJSON does with loadOBJ's output. Only the
// POSITION/NORMAL/TEXCOORD_0 attributes and triangle index lists are read;
// materials, textures and the node hierarchy are left to the scene file's
// own "texture" field, matching how every other primitive type is textured.
func loadGLTF(path string, transform *core.Transform) (p, n []core.Vec3, uv [][2]float64, tris []geometry.Triangle, err error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "cannot open glTF %s", path)
	}

	mesh, prim, err := firstPrimitive(doc)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "%s", path)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, nil, nil, nil, errors.Errorf("%s: mesh %q primitive has no POSITION attribute", path, mesh.Name)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "%s: reading positions", path)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, nil, nil, nil, errors.Wrapf(err, "%s: reading normals", path)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, nil, nil, nil, errors.Wrapf(err, "%s: reading texcoords", path)
		}
	}

	p = make([]core.Vec3, len(positions))
	for i, v := range positions {
		p[i] = transform.Value.MulPoint(core.NewVec3(float64(v[0]), float64(v[1]), float64(v[2])))
	}

	n = make([]core.Vec3, len(positions))
	if len(normals) == len(positions) {
		for i, v := range normals {
			n[i] = transform.Value.MulDirection(core.NewVec3(float64(v[0]), float64(v[1]), float64(v[2]))).Normalize()
		}
	}

	if len(uvs) == len(positions) {
		uv = make([][2]float64, len(positions))
		for i, v := range uvs {
			uv[i] = [2]float64{float64(v[0]), float64(v[1])}
		}
	}

	if prim.Indices == nil {
		return nil, nil, nil, nil, errors.Errorf("%s: mesh %q primitive has no index buffer", path, mesh.Name)
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "%s: reading indices", path)
	}
	if len(indices)%3 != 0 {
		return nil, nil, nil, nil, errors.Errorf("%s: index buffer length %d is not a multiple of 3", path, len(indices))
	}

	tris = make([]geometry.Triangle, len(indices)/3)
	for i := range tris {
		tris[i] = geometry.Triangle{
			I: int(indices[3*i]), J: int(indices[3*i+1]), K: int(indices[3*i+2]),
		}
	}

	hasNormal := len(normals) == len(positions)
	if !hasNormal {
		for _, tri := range tris {
			faceNorm := p[tri.J].Subtract(p[tri.I]).Cross(p[tri.K].Subtract(p[tri.I])).Normalize()
			n[tri.I], n[tri.J], n[tri.K] = faceNorm, faceNorm, faceNorm
		}
	}

	return p, n, uv, tris, nil
}

// firstPrimitive returns the first primitive of the first mesh in
// doc.Meshes that has any primitives. The scene graph and node hierarchy
// are not consulted.
func firstPrimitive(doc *gltf.Document) (*gltf.Mesh, *gltf.Primitive, error) {
	for _, mesh := range doc.Meshes {
		if len(mesh.Primitives) > 0 {
			return mesh, &mesh.Primitives[0], nil
		}
	}
	return nil, nil, errors.New("no mesh primitives found")
}
