package scene

import (
	"encoding/json"

	"github.com/df07/cg-tracing/pkg/geometry"
	"github.com/pkg/errors"
)

// FactoryFunc builds one primitive from its JSON object (including the
// shared "transform" and "texture" fields, which helpers on objectCommon
// parse for every factory). Grounded on the original loader's
// string -> factory-closure registry: the builtin types are registered the
// same way a caller registers its own.
type FactoryFunc func(raw json.RawMessage) (geometry.Primitive, error)

// Registry maps a scene object's "type" string to the factory that builds
// it. NewRegistry returns one pre-populated with the builtin primitive
// types; callers add custom types with Register before calling Load.
type Registry struct {
	factories map[string]FactoryFunc
}

// NewRegistry returns a registry with sphere, plane, mesh, gltf and
// bezier_rotate pre-registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]FactoryFunc)}
	r.Register("sphere", newSphereFromJSON)
	r.Register("plane", newPlaneFromJSON)
	r.Register("mesh", newMeshFromJSON)
	r.Register("gltf", newGLTFMeshFromJSON)
	r.Register("bezier_rotate", newBezierFromJSON)
	return r
}

// Register adds or overrides the factory for a type string.
func (r *Registry) Register(typ string, f FactoryFunc) {
	r.factories[typ] = f
}

func (r *Registry) build(typ string, raw json.RawMessage) (geometry.Primitive, error) {
	f, ok := r.factories[typ]
	if !ok {
		return nil, errors.Errorf("scene: unknown object type %q", typ)
	}
	return f(raw)
}
