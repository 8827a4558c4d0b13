package query

import (
	"github.com/achilleasa/meshquery/geometry"
	"github.com/achilleasa/meshquery/octree"
	"github.com/achilleasa/meshquery/types"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Approximate the point on the octree triangles that is closest to p.
//
// Starting at the root, the query greedily descends into the child whose box
// is closest to p, skipping children that hold no triangles, and runs a brute
// force search over the reached leaf. The descent never backtracks, so when
// the true nearest triangle lives in a sibling cell the returned distance is
// larger than the exact one.
func NearestPointOctree(p types.Vec3, o *octree.Octree) (NearestResult, error) {
	root := o.Root()
	if root == nil {
		return NearestResult{}, errors.Wrap(ErrIndexNotBuilt, "octree nearest point")
	}
	if root.Count == 0 {
		return NearestResult{}, errors.Wrapf(ErrEmptyTriangleSet, "octree nearest point to %v", p)
	}

	node := root
	for !node.Leaf {
		var next *octree.Node
		bestDistSq := math32.Inf(1)
		for _, childIndex := range node.Children {
			child := o.Node(childIndex)
			if child.Count == 0 {
				continue
			}
			if distSq := geometry.SqDistancePointBox(p, child.BBox); next == nil || distSq < bestDistSq {
				next = child
				bestDistSq = distSq
			}
		}
		node = next
	}

	var best NearestResult
	var bestDistSq float32
	for idx, triIndex := range node.Triangles {
		point := geometry.ClosestPointOnTriangle(p, o.Triangle(triIndex))
		distSq := point.Sub(p).LenSq()
		if idx == 0 || distSq < bestDistSq {
			best = NearestResult{Point: point, Triangle: int(triIndex)}
			bestDistSq = distSq
		}
	}

	best.Distance = best.Point.Distance(p)
	return best, nil
}

// Find the closest hit in front of the ray origin among the octree
// triangles. Subtrees whose box is missed by the ray are pruned.
func IntersectRayOctree(r types.Ray, o *octree.Octree) (Hit, bool, error) {
	root := o.Root()
	if root == nil {
		return Hit{}, false, errors.Wrap(ErrIndexNotBuilt, "octree ray intersection")
	}
	if root.Count == 0 {
		return Hit{}, false, errors.Wrapf(ErrEmptyTriangleSet, "octree ray intersection from %v", r.Origin)
	}

	tracker := hitTracker{ray: r}
	intersectOctreeNode(r, o, root, &tracker)

	hit, ok := tracker.result()
	return hit, ok, nil
}

func intersectOctreeNode(r types.Ray, o *octree.Octree, node *octree.Node, tracker *hitTracker) {
	if node.Count == 0 || !geometry.IntersectRayBox(r, node.BBox) {
		return
	}

	if node.Leaf {
		for _, triIndex := range node.Triangles {
			if t, ok := geometry.IntersectRayTriangle(r, o.Triangle(triIndex)); ok {
				tracker.offer(t, int(triIndex))
			}
		}
		return
	}

	for _, childIndex := range node.Children {
		intersectOctreeNode(r, o, o.Node(childIndex), tracker)
	}
}
