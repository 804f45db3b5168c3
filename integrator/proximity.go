package integrator

import (
	"errors"

	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/scene"
	"github.com/joeylitalien/mitsuba/stream"
	"github.com/joeylitalien/mitsuba/types"
)

// Proximity contributes direct radiance that falls off linearly with hit
// distance, up to a maximum distance. A non-positive maximum distance is
// derived from the scene bounding sphere during preprocessing, which
// exercises the publish-derived-state-before-dispatch rule: workers only
// ever see the resolved value.
type Proximity struct {
	Tint    types.Vec3
	MaxDist float32
}

func NewProximity(tint types.Vec3, maxDist float32) *Proximity {
	return &Proximity{
		Tint:    tint,
		MaxDist: maxDist,
	}
}

func (in *Proximity) Preprocess(sc *scene.Scene) error {
	if in.MaxDist > 0 {
		return nil
	}
	if sc.BoundsRadius <= 0 {
		return errors.New("integrator: scene bounds not computed")
	}
	in.MaxDist = 2.0 * sc.BoundsRadius
	return nil
}

func (in *Proximity) Estimate(ray types.Ray, q *QueryContext) types.Vec3 {
	if q.Requested&Direct == 0 {
		return types.Vec3{}
	}

	hit, ok := q.EnsureIntersection(ray)
	if !ok || hit.T >= in.MaxDist {
		return types.Vec3{}
	}

	weight := 1.0 - hit.T/in.MaxDist
	return hit.Albedo.MulVec(in.Tint).Mul(weight)
}

func (in *Proximity) TypeTag() string {
	return "integrator.proximity"
}

func (in *Proximity) Encode(enc *registry.Encoder) error {
	s := enc.Stream()
	if err := writeVec3(s, in.Tint); err != nil {
		return err
	}
	return s.WriteFloat32(in.MaxDist)
}

func (in *Proximity) Decode(dec *registry.Decoder) error {
	s := dec.Stream()
	var err error
	if in.Tint, err = readVec3(s); err != nil {
		return err
	}
	in.MaxDist, err = s.ReadFloat32()
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
	registry.Register("integrator.proximity", func() registry.Serializable { return &Proximity{} })
}
