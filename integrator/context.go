package integrator

import (
	"github.com/joeylitalien/mitsuba/scene"
	"github.com/joeylitalien/mitsuba/types"
)

// An Intersector answers ray/geometry queries. *scene.Scene satisfies
// this; tests substitute probes that count queries.
type Intersector interface {
	Intersect(ray types.Ray) (scene.Intersection, bool)
}

// A QueryContext carries per-ray state through a chain of nested
// estimator calls: the lazily computed intersection and the component
// mask the outermost caller asked for. A context is single-threaded and
// single-use; reuse across samples requires a Reset.
type QueryContext struct {
	// Components the current caller wants. Narrowed (never widened) by
	// integrators that nest children.
	Requested Component

	// Nesting depth of the current estimator call.
	Depth int

	intersector Intersector
	hit         scene.Intersection
	hasHit      bool
	resolved    bool
	queries     int
}

// Create a query context for one ray against the given geometry.
func NewQueryContext(in Intersector, mask Component) *QueryContext {
	return &QueryContext{
		Requested:   mask,
		intersector: in,
	}
}

// Get the intersection for the ray, computing it on first use only.
// Every nested estimator invoked with the same context observes the
// cached result instead of re-running the geometric query.
func (q *QueryContext) EnsureIntersection(ray types.Ray) (scene.Intersection, bool) {
	if !q.resolved {
		q.queries++
		q.hit, q.hasHit = q.intersector.Intersect(ray)
		q.resolved = true
	}
	return q.hit, q.hasHit
}

// Clear cached state so the context can serve the next sample.
func (q *QueryContext) Reset(mask Component) {
	q.Requested = mask
	q.Depth = 0
	q.hit = scene.Intersection{}
	q.hasHit = false
	q.resolved = false
}

// Get the number of geometric queries performed through this context.
func (q *QueryContext) Queries() int {
	return q.queries
}
