package scene

import (
	"math"

	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/stream"
	"github.com/joeylitalien/mitsuba/types"
)

const intersectEpsilon = 1e-4

type Sphere struct {
	Center types.Vec3
	Radius float32
	Albedo types.Vec3
}

// Intersect the sphere with a ray. Returns the distance to the nearest
// hit in front of the ray origin.
func (sph *Sphere) Intersect(ray types.Ray) (float32, bool) {
	oc := ray.Origin.Sub(sph.Center)
	b := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - sph.Radius*sph.Radius
	disc := b*b - c

	if disc < 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t := -b - sqrtDisc
	if t < intersectEpsilon {
		t = -b + sqrtDisc
	}
	if t < intersectEpsilon {
		return 0, false
	}
	return t, true
}

func (sph *Sphere) TypeTag() string {
	return "sphere"
}

func (sph *Sphere) Encode(enc *registry.Encoder) error {
	s := enc.Stream()
	if err := writeVec3(s, sph.Center); err != nil {
		return err
	}
	if err := s.WriteFloat32(sph.Radius); err != nil {
		return err
	}
	return writeVec3(s, sph.Albedo)
}

func (sph *Sphere) Decode(dec *registry.Decoder) error {
	s := dec.Stream()
	var err error
	if sph.Center, err = readVec3(s); err != nil {
		return err
	}
	if sph.Radius, err = s.ReadFloat32(); err != nil {
		return err
	}
	sph.Albedo, err = readVec3(s)
	return err
}

// Encode a vector as three canonical-order floats.
func writeVec3(s stream.Stream, v types.Vec3) error {
	for i := 0; i < 3; i++ {
		if err := s.WriteFloat32(v[i]); err != nil {
			return err
		}
	}
	return nil
}

func readVec3(s stream.Stream) (types.Vec3, error) {
	var v types.Vec3
	for i := 0; i < 3; i++ {
		val, err := s.ReadFloat32()
		if err != nil {
			return v, err
		}
		v[i] = val
	}
	return v, nil
}

func init() {
	registry.Register("sphere", func() registry.Serializable { return &Sphere{} })
}
