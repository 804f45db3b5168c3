package scene

import (
	"math"

	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/types"
)

// A pinhole camera. The basis vectors are rebuilt from the eye/look/up
// parameters after construction or decoding.
type Camera struct {
	Eye  types.Vec3
	Look types.Vec3
	Up   types.Vec3
	Fov  float32

	// Derived basis; not serialized.
	forward types.Vec3
	right   types.Vec3
	up      types.Vec3
}

// Create a new camera looking from eye towards look.
func NewCamera(eye, look, up types.Vec3, fov float32) *Camera {
	c := &Camera{
		Eye:  eye,
		Look: look,
		Up:   up,
		Fov:  fov,
	}
	c.Update()
	return c
}

// Rebuild the camera basis from the current parameters.
func (c *Camera) Update() {
	c.forward = c.Look.Sub(c.Eye).Normalize()
	c.right = cross(c.forward, c.Up).Normalize()
	c.up = cross(c.right, c.forward)
}

// Generate the primary ray through pixel (x, y) of a frameW x frameH
// target.
func (c *Camera) PrimaryRay(x, y, frameW, frameH int) types.Ray {
	aspect := float32(frameW) / float32(frameH)
	halfH := float32(math.Tan(float64(c.Fov) * math.Pi / 360.0))
	halfW := halfH * aspect

	// Pixel center in [-1, 1] screen space.
	sx := (2.0*(float32(x)+0.5)/float32(frameW) - 1.0) * halfW
	sy := (1.0 - 2.0*(float32(y)+0.5)/float32(frameH)) * halfH

	dir := c.forward.Add(c.right.Mul(sx)).Add(c.up.Mul(sy))
	return types.NewRay(c.Eye, dir)
}

func cross(a, b types.Vec3) types.Vec3 {
	return types.Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (c *Camera) TypeTag() string {
	return "camera"
}

func (c *Camera) Encode(enc *registry.Encoder) error {
	s := enc.Stream()
	if err := writeVec3(s, c.Eye); err != nil {
		return err
	}
	if err := writeVec3(s, c.Look); err != nil {
		return err
	}
	if err := writeVec3(s, c.Up); err != nil {
		return err
	}
	return s.WriteFloat32(c.Fov)
}

func (c *Camera) Decode(dec *registry.Decoder) error {
	s := dec.Stream()
	var err error
	if c.Eye, err = readVec3(s); err != nil {
		return err
	}
	if c.Look, err = readVec3(s); err != nil {
		return err
	}
	if c.Up, err = readVec3(s); err != nil {
		return err
	}
	if c.Fov, err = s.ReadFloat32(); err != nil {
		return err
	}
	c.Update()
	return nil
}

func init() {
	registry.Register("camera", func() registry.Serializable { return &Camera{} })
}
