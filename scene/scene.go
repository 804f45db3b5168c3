// Package scene provides the geometry collaborator for the rendering
// core. A scene is an object graph node so it can be shipped to workers
// through a registry session; the spheres it contains are graph nodes of
// their own, so shared geometry is transmitted once.
package scene

import (
	"errors"
	"fmt"

	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/types"
)

// Result of a ray/scene intersection query.
type Intersection struct {
	// Hit point and surface normal at the hit point.
	Point  types.Vec3
	Normal types.Vec3

	// Distance along the ray to the hit point.
	T float32

	// Surface color at the hit point.
	Albedo types.Vec3
}

type Scene struct {
	Camera  *Camera
	Spheres []*Sphere

	// Bounding sphere of the scene geometry. Derived once during the
	// preprocessing phase on the initiating node and redistributed to
	// workers with the rest of the graph.
	BoundsCenter types.Vec3
	BoundsRadius float32
}

// Find the nearest intersection along the ray. Returns false if the ray
// escapes the scene.
func (sc *Scene) Intersect(ray types.Ray) (Intersection, bool) {
	var nearest Intersection
	found := false

	for _, sph := range sc.Spheres {
		t, hit := sph.Intersect(ray)
		if !hit {
			continue
		}
		if !found || t < nearest.T {
			point := ray.At(t)
			nearest = Intersection{
				Point:  point,
				Normal: point.Sub(sph.Center).Normalize(),
				T:      t,
				Albedo: sph.Albedo,
			}
			found = true
		}
	}

	return nearest, found
}

// Compute the scene bounding sphere from the attached geometry. Called
// by the preprocessing phase; the result travels to workers as part of
// the serialized scene.
func (sc *Scene) ComputeBounds() error {
	if len(sc.Spheres) == 0 {
		return errors.New("scene: no geometry attached")
	}

	var center types.Vec3
	for _, sph := range sc.Spheres {
		center = center.Add(sph.Center)
	}
	center = center.Mul(1.0 / float32(len(sc.Spheres)))

	var radius float32
	for _, sph := range sc.Spheres {
		r := sph.Center.Sub(center).Len() + sph.Radius
		if r > radius {
			radius = r
		}
	}

	sc.BoundsCenter = center
	sc.BoundsRadius = radius
	return nil
}

func (sc *Scene) TypeTag() string {
	return "scene"
}

func (sc *Scene) Encode(enc *registry.Encoder) error {
	var camera registry.Serializable
	if sc.Camera != nil {
		camera = sc.Camera
	}
	if err := enc.EncodeGraph(camera); err != nil {
		return err
	}

	s := enc.Stream()
	if err := s.WriteUint32(uint32(len(sc.Spheres))); err != nil {
		return err
	}
	for _, sph := range sc.Spheres {
		var node registry.Serializable
		if sph != nil {
			node = sph
		}
		if err := enc.EncodeGraph(node); err != nil {
			return err
		}
	}

	if err := writeVec3(s, sc.BoundsCenter); err != nil {
		return err
	}
	return s.WriteFloat32(sc.BoundsRadius)
}

func (sc *Scene) Decode(dec *registry.Decoder) error {
	node, err := dec.DecodeGraph()
	if err != nil {
		return err
	}
	if node != nil {
		camera, ok := node.(*Camera)
		if !ok {
			return fmt.Errorf("scene: expected camera node, got %q", node.TypeTag())
		}
		sc.Camera = camera
	}

	s := dec.Stream()
	count, err := s.ReadUint32()
	if err != nil {
		return err
	}
	sc.Spheres = make([]*Sphere, count)
	for i := range sc.Spheres {
		node, err := dec.DecodeGraph()
		if err != nil {
			return err
		}
		if node == nil {
			return fmt.Errorf("scene: sphere %d is missing", i)
		}
		sph, ok := node.(*Sphere)
		if !ok {
			return fmt.Errorf("scene: expected sphere node, got %q", node.TypeTag())
		}
		sc.Spheres[i] = sph
	}

	if sc.BoundsCenter, err = readVec3(s); err != nil {
		return err
	}
	sc.BoundsRadius, err = s.ReadFloat32()
	return err
}

func init() {
	registry.Register("scene", func() registry.Serializable { return &Scene{} })
}
