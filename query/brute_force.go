package query

import (
	"github.com/achilleasa/meshquery/geometry"
	"github.com/achilleasa/meshquery/types"
	"github.com/pkg/errors"
)

// Find the point on a triangle list that is closest to p by testing every
// triangle. Ties resolve to the first triangle in the list.
func NearestPoint(p types.Vec3, triangles []types.Triangle) (NearestResult, error) {
	if len(triangles) == 0 {
		return NearestResult{}, errors.Wrapf(ErrEmptyTriangleSet, "nearest point to %v", p)
	}

	var best NearestResult
	var bestDistSq float32
	for idx, tri := range triangles {
		point := geometry.ClosestPointOnTriangle(p, tri)
		distSq := point.Sub(p).LenSq()
		if idx == 0 || distSq < bestDistSq {
			best = NearestResult{Point: point, Triangle: idx}
			bestDistSq = distSq
		}
	}

	best.Distance = best.Point.Distance(p)
	return best, nil
}

// Find the closest hit in front of the ray origin by testing every
// triangle.
func IntersectRay(r types.Ray, triangles []types.Triangle) (Hit, bool, error) {
	if len(triangles) == 0 {
		return Hit{}, false, errors.Wrapf(ErrEmptyTriangleSet, "ray intersection from %v", r.Origin)
	}

	tracker := hitTracker{ray: r}
	for idx, tri := range triangles {
		if t, ok := geometry.IntersectRayTriangle(r, tri); ok {
			tracker.offer(t, idx)
		}
	}

	hit, ok := tracker.result()
	return hit, ok, nil
}
