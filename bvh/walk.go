package bvh

import "github.com/achilleasa/meshquery/types"

// A callback invoked for each visited node. Returning false skips the
// node's children.
type VisitFunc func(node *Node, depth int) bool

// Visit the tree nodes in depth-first order starting at the root.
func (t *Tree) Walk(visit VisitFunc) {
	t.walk(0, 0, visit)
}

func (t *Tree) walk(nodeIndex uint32, depth int, visit VisitFunc) {
	node := &t.nodes[nodeIndex]
	if !visit(node, depth) || node.IsLeaf() {
		return
	}

	t.walk(node.Left, depth+1, visit)
	t.walk(node.Right, depth+1, visit)
}

// Collect the bounding boxes of all tree nodes.
func (t *Tree) NodeBoxes() []types.AABB {
	boxes := make([]types.AABB, 0, len(t.nodes))
	t.Walk(func(node *Node, _ int) bool {
		boxes = append(boxes, node.BBox)
		return true
	})
	return boxes
}
