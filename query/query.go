// Package query implements nearest-point and ray intersection queries over a
// flat triangle list, an octree or a BVH.
//
// All queries are read-only traversals. Once an index has been built they
// can run concurrently without locking.
package query

import (
	"github.com/achilleasa/meshquery/types"
	"github.com/pkg/errors"
)

var (
	ErrEmptyTriangleSet = errors.New("query: empty triangle set")
	ErrUnknownMethod    = errors.New("query: unknown acceleration method")
	ErrIndexNotBuilt    = errors.New("query: acceleration structure not built")
)

// The result of a nearest point query.
type NearestResult struct {
	// The point on the mesh closest to the query point.
	Point types.Vec3

	// The distance between the query point and Point.
	Distance float32

	// The index of the triangle containing Point in the caller's triangle
	// list.
	Triangle int
}

// The result of a ray intersection query.
type Hit struct {
	// The parametric distance along the ray.
	T float32

	// The intersection point.
	Point types.Vec3

	// The index of the hit triangle in the caller's triangle list.
	Triangle int
}

// Keeps track of the closest ray hit seen so far.
type hitTracker struct {
	ray  types.Ray
	best Hit
	hit  bool
}

// Record a candidate; only hits in front of the ray origin are kept.
func (h *hitTracker) offer(t float32, triIndex int) {
	if t <= 0 {
		return
	}
	if h.hit && t >= h.best.T {
		return
	}
	h.best = Hit{T: t, Triangle: triIndex}
	h.hit = true
}

func (h *hitTracker) result() (Hit, bool) {
	if !h.hit {
		return Hit{}, false
	}
	h.best.Point = h.ray.PointAt(h.best.T)
	return h.best, true
}
