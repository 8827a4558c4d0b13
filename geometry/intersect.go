// Package geometry implements the elementary intersection and distance tests
// shared by the spatial indices and the query engine.
package geometry

import (
	"github.com/achilleasa/meshquery/types"
	"github.com/chewxy/math32"
)

// Ray/triangle determinants with a magnitude below this threshold are
// treated as parallel or degenerate.
const Epsilon float32 = 1e-8

// Test whether a ray intersects a bounding box using the slab method.
//
// A zero direction component produces an infinite slab through IEEE
// division; rays that travel along an axis rely on this behavior. The ray
// is a half-line so boxes that lie entirely behind its origin are rejected.
func IntersectRayBox(r types.Ray, box types.AABB) bool {
	tMin := math32.Inf(-1)
	tMax := math32.Inf(1)

	for axis := 0; axis < 3; axis++ {
		t0 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
		t1 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		if tMin > t1 || t0 > tMax {
			return false
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
	}

	return tMax >= 0
}

// Test whether a ray intersects a triangle using the Möller–Trumbore
// algorithm. On a hit, the parametric distance t is returned. No range
// check is applied to t.
func IntersectRayTriangle(r types.Ray, tri types.Triangle) (t float32, hit bool) {
	v0 := tri.Vertices[0]
	e1 := tri.Vertices[1].Sub(v0)
	e2 := tri.Vertices[2].Sub(v0)

	pVec := r.Direction.Cross(e2)
	det := e1.Dot(pVec)
	if math32.Abs(det) < Epsilon {
		return 0, false
	}
	invDet := 1.0 / det

	tVec := r.Origin.Sub(v0)
	u := tVec.Dot(pVec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qVec := tVec.Cross(e1)
	v := r.Direction.Dot(qVec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	return e2.Dot(qVec) * invDet, true
}

// Test whether two boxes overlap. Boxes that share a face overlap.
func IntersectBoxBox(a, b types.AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if a.Max[axis] < b.Min[axis] || b.Max[axis] < a.Min[axis] {
			return false
		}
	}
	return true
}
