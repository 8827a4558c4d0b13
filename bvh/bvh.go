// Package bvh implements a bounding volume hierarchy over triangles.
//
// The tree is built top-down by recursively partitioning the primitive list.
// Leaf primitives are copied into a flat, reordered primitive list; leafs
// reference a contiguous (offset, count) slice of that list.
package bvh

import (
	"fmt"
	"strings"
	"time"

	"github.com/achilleasa/meshquery/types"
	"github.com/pkg/errors"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// The strategy used for partitioning primitives at each interior node.
type SplitMethod uint8

const (
	// Split at the midpoint of the centroid bounds along the dominant axis.
	SplitMidpoint SplitMethod = iota

	// Split into two halves with an equal number of primitives.
	SplitEqualCounts

	// Pick the split with the lowest surface area heuristic score.
	SplitSAH
)

var (
	ErrNoPrimitives       = errors.New("bvh: no primitives to partition")
	ErrUnknownSplitMethod = errors.New("bvh: unknown split method")
)

var splitMethodNames = map[SplitMethod]string{
	SplitMidpoint:    "midpoint",
	SplitEqualCounts: "equal",
	SplitSAH:         "sah",
}

func (m SplitMethod) String() string {
	if name, ok := splitMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SplitMethod(%d)", m)
}

// Parse a split method name.
func ParseSplitMethod(name string) (SplitMethod, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for method, methodName := range splitMethodNames {
		if methodName == name {
			return method, nil
		}
	}
	return SplitMidpoint, errors.Wrapf(ErrUnknownSplitMethod, "parse %q", name)
}

// A callback that is called whenever the BVH builder creates a new leaf.
type LeafCallback func(leaf *Node, primitives []types.Triangle)

// Build options.
type Options struct {
	Method SplitMethod

	// Ranges with at most this many primitives become leafs. Values < 1
	// are treated as 1.
	MaxLeafPrimitives int

	// An optional callback invoked for each created leaf.
	OnLeaf LeafCallback
}

// A BVH node. A node is either a leaf referencing a slice of the reordered
// primitive list or an interior node with two children. The root is always
// stored at index 0 so a child index of 0 denotes an absent child.
type Node struct {
	BBox types.AABB

	// Leaf data.
	Offset uint32
	Count  uint32

	// Interior data.
	Left  uint32
	Right uint32
	Axis  Axis
}

// Returns true if the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == 0 && n.Right == 0
}

// Set left and right child node indices and the split axis.
func (n *Node) SetChildNodes(left, right uint32, axis Axis) {
	n.Left = left
	n.Right = right
	n.Axis = axis
}

// Set primitive offset and count.
func (n *Node) SetPrimitives(offset, count uint32) {
	n.Offset = offset
	n.Count = count
}

// Build statistics.
type Stats struct {
	Primitives int
	Nodes      int
	Leafs      int
	MaxDepth   int

	// Number of ranges where the configured split method failed to
	// separate the primitives and the equal-count split was used instead.
	Fallbacks int

	// Number of multi-primitive ranges that could not be split at all.
	ForcedLeafs int

	BuildTime time.Duration
}

// A built BVH. The tree is immutable and safe for concurrent queries.
type Tree struct {
	nodes []Node

	// Primitives in leaf order.
	primitives []types.Triangle

	// The index in the input list of each reordered primitive.
	primitiveIndex []uint32

	method SplitMethod
	stats  Stats
}

// Get the root node.
func (t *Tree) Root() *Node {
	return &t.nodes[0]
}

// Get a node by index.
func (t *Tree) Node(index uint32) *Node {
	return &t.nodes[index]
}

// Get the number of tree nodes.
func (t *Tree) NumNodes() int {
	return len(t.nodes)
}

// Get the reordered primitive list.
func (t *Tree) Primitives() []types.Triangle {
	return t.primitives
}

// Get the primitives referenced by a leaf.
func (t *Tree) LeafPrimitives(leaf *Node) []types.Triangle {
	return t.primitives[leaf.Offset : leaf.Offset+leaf.Count]
}

// Map a reordered primitive slot back to its index in the input list.
func (t *Tree) OriginalIndex(slot uint32) uint32 {
	return t.primitiveIndex[slot]
}

// Get the split method used for building the tree.
func (t *Tree) Method() SplitMethod {
	return t.method
}

// Get build statistics.
func (t *Tree) Stats() Stats {
	return t.stats
}
