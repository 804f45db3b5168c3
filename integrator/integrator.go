// Package integrator defines the radiance estimator contract and the
// per-ray query context shared by a tree of nested estimators.
package integrator

import (
	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/scene"
	"github.com/joeylitalien/mitsuba/types"
)

// Component identifies one radiance contribution in the requested
// component bitmask threaded through nested estimator calls.
type Component uint32

const (
	Emitted Component = 1 << iota
	Direct
	Indirect
	Specular

	AllComponents = Emitted | Direct | Indirect | Specular
)

// An Integrator estimates radiance along a ray. Integrators may nest
// other integrators; nested calls must forward the same query context so
// intersection reuse holds across the whole tree. Every integrator is an
// object graph node so a configured tree can be shipped to workers
// through a registry session.
type Integrator interface {
	registry.Serializable

	// One-time setup run on the initiating node only, strictly before
	// any block is dispatched. State derived here must live in
	// serialized fields so redistribution publishes it to workers.
	Preprocess(sc *scene.Scene) error

	// Estimate radiance along the ray. Implementations consult the
	// context's requested component mask and must not contribute
	// components the caller excluded.
	Estimate(ray types.Ray, q *QueryContext) types.Vec3
}
