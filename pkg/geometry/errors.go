package geometry

import "github.com/pkg/errors"

// errOrthonormality signals a Plane whose transform axes are not mutually
// orthogonal: a scene-authoring bug, fatal at scene-build time.
var errOrthonormality = errors.New("geometry: plane frame is not orthonormal")
