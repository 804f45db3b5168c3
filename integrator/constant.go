package integrator

import (
	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/scene"
	"github.com/joeylitalien/mitsuba/types"
)

// Constant contributes a fixed emitted color regardless of geometry.
type Constant struct {
	Color types.Vec3
}

func NewConstant(color types.Vec3) *Constant {
	return &Constant{Color: color}
}

func (in *Constant) Preprocess(_ *scene.Scene) error {
	return nil
}

func (in *Constant) Estimate(_ types.Ray, q *QueryContext) types.Vec3 {
	if q.Requested&Emitted == 0 {
		return types.Vec3{}
	}
	return in.Color
}

func (in *Constant) TypeTag() string {
	return "integrator.constant"
}

func (in *Constant) Encode(enc *registry.Encoder) error {
	return writeVec3(enc.Stream(), in.Color)
}

func (in *Constant) Decode(dec *registry.Decoder) error {
	var err error
	in.Color, err = readVec3(dec.Stream())
	return err
}

func init() {
	registry.Register("integrator.constant", func() registry.Serializable { return &Constant{} })
}
