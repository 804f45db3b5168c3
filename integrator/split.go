package integrator

import (
	"fmt"

	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/scene"
	"github.com/joeylitalien/mitsuba/types"
)

// A Term pairs a nested integrator with the components it contributes.
type Term struct {
	Contributes Component
	Node        Integrator
}

// Split composes nested integrators and sums their contributions. Mask
// enforcement happens here, at the nesting boundary: a child whose
// declared components fall outside the requested mask is never invoked,
// and invoked children see the narrowed mask. All children share the
// caller's query context, so an intersection computed by one child is
// reused by its siblings.
type Split struct {
	Terms []Term
}

func NewSplit(terms ...Term) *Split {
	return &Split{Terms: terms}
}

func (in *Split) Preprocess(sc *scene.Scene) error {
	for _, term := range in.Terms {
		if err := term.Node.Preprocess(sc); err != nil {
			return err
		}
	}
	return nil
}

func (in *Split) Estimate(ray types.Ray, q *QueryContext) types.Vec3 {
	var sum types.Vec3
	caller := q.Requested

	for _, term := range in.Terms {
		effective := caller & term.Contributes
		if effective == 0 {
			continue
		}

		q.Requested = effective
		q.Depth++
		sum = sum.Add(term.Node.Estimate(ray, q))
		q.Depth--
	}

	q.Requested = caller
	return sum
}

func (in *Split) TypeTag() string {
	return "integrator.split"
}

func (in *Split) Encode(enc *registry.Encoder) error {
	s := enc.Stream()
	if err := s.WriteUint32(uint32(len(in.Terms))); err != nil {
		return err
	}
	for _, term := range in.Terms {
		if err := s.WriteUint32(uint32(term.Contributes)); err != nil {
			return err
		}
		if err := enc.EncodeGraph(term.Node); err != nil {
			return err
		}
	}
	return nil
}

func (in *Split) Decode(dec *registry.Decoder) error {
	s := dec.Stream()
	count, err := s.ReadUint32()
	if err != nil {
		return err
	}

	in.Terms = make([]Term, count)
	for i := range in.Terms {
		mask, err := s.ReadUint32()
		if err != nil {
			return err
		}
		node, err := dec.DecodeGraph()
		if err != nil {
			return err
		}
		if node == nil {
			return fmt.Errorf("integrator: term %d has no nested integrator", i)
		}
		child, ok := node.(Integrator)
		if !ok {
			return fmt.Errorf("integrator: nested node %q is not an integrator", node.TypeTag())
		}
		in.Terms[i] = Term{
			Contributes: Component(mask),
			Node:        child,
		}
	}
	return nil
}

func init() {
	registry.Register("integrator.split", func() registry.Serializable { return &Split{} })
}
