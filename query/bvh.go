package query

import (
	"github.com/achilleasa/meshquery/bvh"
	"github.com/achilleasa/meshquery/geometry"
	"github.com/achilleasa/meshquery/types"
	"github.com/pkg/errors"
)

// Upper bound for the traversal stack; BVH depth stays far below this for
// any realistic primitive count.
const maxStackDepth = 64

// Find the closest hit in front of the ray origin among the BVH primitives.
//
// Children are visited front to back based on the sign of the ray direction
// along the node split axis; subtrees whose box is missed are pruned.
func IntersectRayBVH(r types.Ray, tree *bvh.Tree) (Hit, bool, error) {
	if tree == nil {
		return Hit{}, false, errors.Wrap(ErrIndexNotBuilt, "bvh ray intersection")
	}

	tracker := hitTracker{ray: r}
	stack := make([]uint32, 1, maxStackDepth)
	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.Node(nodeIndex)
		if !geometry.IntersectRayBox(r, node.BBox) {
			continue
		}

		if node.IsLeaf() {
			for slot := node.Offset; slot < node.Offset+node.Count; slot++ {
				if t, ok := geometry.IntersectRayTriangle(r, tree.Primitives()[slot]); ok {
					tracker.offer(t, int(tree.OriginalIndex(slot)))
				}
			}
			continue
		}

		// Push the far child first so the near one is visited next
		if r.Direction[node.Axis] < 0 {
			stack = append(stack, node.Left, node.Right)
		} else {
			stack = append(stack, node.Right, node.Left)
		}
	}

	hit, ok := tracker.result()
	return hit, ok, nil
}

// Find the point on the BVH primitives that is closest to p.
//
// Unlike the octree query this is an exact branch-and-bound search: a
// subtree is skipped only when its box is farther away than the best
// candidate found so far.
func NearestPointBVH(p types.Vec3, tree *bvh.Tree) (NearestResult, error) {
	if tree == nil {
		return NearestResult{}, errors.Wrap(ErrIndexNotBuilt, "bvh nearest point")
	}

	// Seed with the first stored primitive so that a result is returned even
	// when no distance compares smaller (NaN query points or overflow).
	first := geometry.ClosestPointOnTriangle(p, tree.Primitives()[0])
	best := NearestResult{Point: first, Triangle: int(tree.OriginalIndex(0))}
	bestDistSq := first.Sub(p).LenSq()

	stack := make([]uint32, 1, maxStackDepth)
	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.Node(nodeIndex)
		if geometry.SqDistancePointBox(p, node.BBox) > bestDistSq {
			continue
		}

		if node.IsLeaf() {
			for slot := node.Offset; slot < node.Offset+node.Count; slot++ {
				point := geometry.ClosestPointOnTriangle(p, tree.Primitives()[slot])
				if distSq := point.Sub(p).LenSq(); distSq < bestDistSq {
					best = NearestResult{Point: point, Triangle: int(tree.OriginalIndex(slot))}
					bestDistSq = distSq
				}
			}
			continue
		}

		left, right := tree.Node(node.Left), tree.Node(node.Right)
		if geometry.SqDistancePointBox(p, left.BBox) <= geometry.SqDistancePointBox(p, right.BBox) {
			stack = append(stack, node.Right, node.Left)
		} else {
			stack = append(stack, node.Left, node.Right)
		}
	}

	best.Distance = best.Point.Distance(p)
	return best, nil
}
