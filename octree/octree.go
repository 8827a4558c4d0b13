// Package octree implements a fixed-depth octree over a triangle mesh.
//
// The full tree shape is allocated up front by BuildTree; every interior node
// has exactly 8 children that split its box at the midpoint of each axis.
// Triangles are then filed into every leaf whose box overlaps their bounding
// box, so a triangle that straddles a cell boundary is referenced by all the
// cells it touches. Only leaves hold triangle lists.
package octree

import (
	"time"

	"github.com/achilleasa/meshquery/geometry"
	"github.com/achilleasa/meshquery/log"
	"github.com/achilleasa/meshquery/types"
	"github.com/pkg/errors"
)

const (
	// Fan-out of interior nodes.
	NumChildren = 8

	// The depth used when callers do not specify one.
	DefaultMaxDepth = 3

	// Deepest supported leaf level; a full tree at this depth holds 8^6 leafs.
	MaxDepthLimit = 6

	// Index of the root node.
	rootIndex uint32 = 0
)

var (
	ErrNotBuilt = errors.New("octree: tree shape has not been built")
)

// An octree node. Nodes are stored in a contiguous list and reference their
// children by index.
type Node struct {
	BBox  types.AABB
	Depth int
	Leaf  bool

	// Child node indices; only valid for interior nodes.
	Children [NumChildren]uint32

	// Indices into the tree triangle list; only populated for leafs.
	Triangles []uint32

	// Number of triangle references stored in this subtree.
	Count int
}

// Build statistics.
type Stats struct {
	Nodes      int
	Leafs      int
	MaxDepth   int
	Triangles  int
	References int

	// Triangles that do not overlap the root box and were not filed.
	Outside int

	BuildTime time.Duration
}

// An octree over a triangle list.
type Octree struct {
	logger log.Logger

	bbox     types.AABB
	maxDepth int

	// Nodes stored as a contiguous list; the root is at index 0.
	nodes []Node

	// Triangles are stored by value in insertion order.
	triangles []types.Triangle

	stats Stats
}

// Create an octree covering bbox whose leafs live at maxDepth. The tree
// shape is not allocated until BuildTree is invoked. maxDepth is clamped to
// [0, MaxDepthLimit].
func New(bbox types.AABB, maxDepth int) *Octree {
	if maxDepth < 0 {
		maxDepth = 0
	}
	if maxDepth > MaxDepthLimit {
		maxDepth = MaxDepthLimit
	}

	return &Octree{
		logger:   log.New("octree"),
		bbox:     bbox,
		maxDepth: maxDepth,
	}
}

// Create an octree, allocate its shape and insert all triangles.
func Build(bbox types.AABB, triangles []types.Triangle, maxDepth int) *Octree {
	start := time.Now()

	o := New(bbox, maxDepth)
	o.BuildTree()
	for _, tri := range triangles {
		// The shape is built so insertion cannot fail.
		_ = o.InsertTriangle(tri)
	}

	o.stats.BuildTime = time.Since(start)
	o.logger.Debugf(
		"octree build time: %d ms, depth: %d, nodes: %d, leafs: %d, triangles: %d, references: %d, outside: %d",
		o.stats.BuildTime.Nanoseconds()/1e6,
		o.stats.MaxDepth, o.stats.Nodes, o.stats.Leafs,
		o.stats.Triangles, o.stats.References, o.stats.Outside,
	)
	return o
}

// Allocate the full tree shape. Any previously inserted triangles are
// discarded.
func (o *Octree) BuildTree() {
	leafCount := 1
	nodeCount := 1
	for depth := 1; depth <= o.maxDepth; depth++ {
		leafCount *= NumChildren
		nodeCount += leafCount
	}

	o.nodes = make([]Node, 1, nodeCount)
	o.nodes[rootIndex] = Node{BBox: o.bbox}
	o.triangles = o.triangles[:0]
	o.stats = Stats{MaxDepth: o.maxDepth}

	o.subdivide(rootIndex)
}

// Recursively split a node into octants until the maximum depth is reached.
func (o *Octree) subdivide(nodeIndex uint32) {
	o.stats.Nodes++

	depth := o.nodes[nodeIndex].Depth
	if depth >= o.maxDepth {
		o.nodes[nodeIndex].Leaf = true
		o.stats.Leafs++
		return
	}

	bbox := o.nodes[nodeIndex].BBox
	center := bbox.Center()
	for octant := 0; octant < NumChildren; octant++ {
		childIndex := uint32(len(o.nodes))
		o.nodes = append(o.nodes, Node{
			BBox:  octantBBox(bbox, center, octant),
			Depth: depth + 1,
		})
		o.nodes[nodeIndex].Children[octant] = childIndex
	}

	for _, childIndex := range o.nodes[nodeIndex].Children {
		o.subdivide(childIndex)
	}
}

// Get the box of an octant. Bit N of the octant index selects the upper half
// along axis N.
func octantBBox(bbox types.AABB, center types.Vec3, octant int) types.AABB {
	out := types.NewAABB(bbox.Min, center)
	for axis := 0; axis < 3; axis++ {
		if octant&(1<<uint(axis)) != 0 {
			out.Min[axis] = center[axis]
			out.Max[axis] = bbox.Max[axis]
		}
	}
	return out
}

// Add a triangle to every leaf whose box overlaps the triangle bbox.
func (o *Octree) InsertTriangle(tri types.Triangle) error {
	if !o.Built() {
		return ErrNotBuilt
	}

	triIndex := uint32(len(o.triangles))
	o.triangles = append(o.triangles, tri)
	o.stats.Triangles++

	added := o.insert(rootIndex, triIndex, tri.BBox)
	if added == 0 {
		o.stats.Outside++
	}
	o.stats.References += added
	return nil
}

// Descend into all nodes overlapping bbox and append the triangle to the
// reached leafs. Returns the number of leafs that received the triangle.
func (o *Octree) insert(nodeIndex, triIndex uint32, bbox types.AABB) int {
	node := &o.nodes[nodeIndex]
	if !geometry.IntersectBoxBox(node.BBox, bbox) {
		return 0
	}

	if node.Leaf {
		node.Triangles = append(node.Triangles, triIndex)
		node.Count++
		return 1
	}

	added := 0
	for _, childIndex := range node.Children {
		added += o.insert(childIndex, triIndex, bbox)
	}
	node.Count += added
	return added
}

// Returns true if the tree shape has been allocated.
func (o *Octree) Built() bool {
	return len(o.nodes) != 0
}

// Get the root node or nil if the tree has not been built.
func (o *Octree) Root() *Node {
	if !o.Built() {
		return nil
	}
	return &o.nodes[rootIndex]
}

// Get a node by index.
func (o *Octree) Node(index uint32) *Node {
	return &o.nodes[index]
}

// Get a triangle by the index stored in leaf triangle lists.
func (o *Octree) Triangle(index uint32) types.Triangle {
	return o.triangles[index]
}

// Get all inserted triangles in insertion order.
func (o *Octree) Triangles() []types.Triangle {
	return o.triangles
}

// Get the root bounding box.
func (o *Octree) BBox() types.AABB {
	return o.bbox
}

// Get the depth of the tree leafs.
func (o *Octree) MaxDepth() int {
	return o.maxDepth
}

// Get build statistics.
func (o *Octree) Stats() Stats {
	return o.stats
}
