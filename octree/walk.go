package octree

import "github.com/achilleasa/meshquery/types"

// A callback invoked for each visited node. Returning false skips the
// node's children.
type VisitFunc func(node *Node) bool

// Visit the tree nodes in depth-first order starting at the root.
func (o *Octree) Walk(visit VisitFunc) {
	if !o.Built() {
		return
	}
	o.walk(rootIndex, visit)
}

func (o *Octree) walk(nodeIndex uint32, visit VisitFunc) {
	node := &o.nodes[nodeIndex]
	if !visit(node) || node.Leaf {
		return
	}

	for _, childIndex := range node.Children {
		o.walk(childIndex, visit)
	}
}

// Collect the bounding boxes of all tree nodes. If nonEmpty is set, nodes
// whose subtree does not reference any triangle are skipped.
func (o *Octree) NodeBoxes(nonEmpty bool) []types.AABB {
	boxes := make([]types.AABB, 0, len(o.nodes))
	o.Walk(func(node *Node) bool {
		if nonEmpty && node.Count == 0 {
			return false
		}
		boxes = append(boxes, node.BBox)
		return true
	})
	return boxes
}
