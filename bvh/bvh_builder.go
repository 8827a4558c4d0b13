package bvh

import (
	"sort"
	"time"

	"github.com/achilleasa/meshquery/log"
	"github.com/achilleasa/meshquery/types"
	"github.com/chewxy/math32"
)

// Number of candidate split planes per axis evaluated by the SAH strategy.
const sahBuckets = 12

// Per-primitive data used while building the tree.
type primitiveInfo struct {
	index    uint32
	bbox     types.AABB
	centroid types.Vec3
}

type splitScore struct {
	axis       Axis
	splitPoint float32

	leftCount, rightCount int
	score                 float32
}

type builder struct {
	logger log.Logger

	input []types.Triangle
	infos []primitiveInfo

	// Bvh nodes stored as a contiguous list
	nodes []Node

	// Leaf primitives in the order they are emitted.
	primitives     []types.Triangle
	primitiveIndex []uint32

	method       SplitMethod
	maxLeafItems int
	leafCb       LeafCallback

	// A channel for receiving per-axis SAH results.
	scoreChan chan splitScore

	stats Stats
}

// Construct a BVH over a list of triangles.
//
// Ranges holding at most opts.MaxLeafPrimitives primitives, or whose
// centroids coincide, become leafs. Other ranges are split along the
// dominant axis of their centroid bounds using opts.Method. If the split
// leaves one side empty the range is split into two equally sized halves
// instead, which guarantees that every recursion step makes progress.
func Build(triangles []types.Triangle, opts Options) (*Tree, error) {
	if len(triangles) == 0 {
		return nil, ErrNoPrimitives
	}
	if _, ok := splitMethodNames[opts.Method]; !ok {
		return nil, ErrUnknownSplitMethod
	}

	maxLeafItems := opts.MaxLeafPrimitives
	if maxLeafItems < 1 {
		maxLeafItems = 1
	}

	b := &builder{
		logger:         log.New("bvh"),
		input:          triangles,
		infos:          make([]primitiveInfo, len(triangles)),
		nodes:          make([]Node, 0, 2*len(triangles)),
		primitives:     make([]types.Triangle, 0, len(triangles)),
		primitiveIndex: make([]uint32, 0, len(triangles)),
		method:         opts.Method,
		maxLeafItems:   maxLeafItems,
		leafCb:         opts.OnLeaf,
		scoreChan:      make(chan splitScore),
		stats: Stats{
			Primitives: len(triangles),
		},
	}

	for idx, tri := range triangles {
		b.infos[idx] = primitiveInfo{
			index:    uint32(idx),
			bbox:     tri.BBox,
			centroid: tri.Centroid(),
		}
	}

	start := time.Now()
	b.partition(0, len(b.infos), 0)
	b.stats.BuildTime = time.Since(start)
	b.logger.Debugf(
		"BVH tree build time: %d ms, method: %s, maxDepth: %d, nodes: %d, leafs: %d, fallbacks: %d",
		b.stats.BuildTime.Nanoseconds()/1e6, b.method,
		b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs, b.stats.Fallbacks,
	)

	return &Tree{
		nodes:          b.nodes,
		primitives:     b.primitives,
		primitiveIndex: b.primitiveIndex,
		method:         b.method,
		stats:          b.stats,
	}, nil
}

// Partition the [start, end) range of the work list and return node index.
func (b *builder) partition(start, end, depth int) uint32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	node := Node{BBox: types.EmptyAABB()}
	centroidBBox := types.EmptyAABB()
	for _, info := range b.infos[start:end] {
		node.BBox = node.BBox.Union(info.bbox)
		centroidBBox.Extend(info.centroid)
	}

	// Do we have enough items for partitioning? If not create a leaf
	if end-start <= b.maxLeafItems {
		return b.createLeaf(&node, start, end)
	}

	axis := Axis(centroidBBox.DominantAxis())
	if centroidBBox.Extent()[axis] == 0 {
		return b.createLeaf(&node, start, end)
	}

	mid := b.split(start, end, axis, centroidBBox)
	if mid == start || mid == end {
		b.stats.ForcedLeafs++
		return b.createLeaf(&node, start, end)
	}

	// Add node to list; its bbox is assembled from the children below
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.stats.Nodes++

	// Partition children and update node indices
	leftNodeIndex := b.partition(start, mid, depth+1)
	rightNodeIndex := b.partition(mid, end, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex, axis)
	b.nodes[nodeIndex].BBox = b.nodes[leftNodeIndex].BBox.Union(b.nodes[rightNodeIndex].BBox)

	return uint32(nodeIndex)
}

// Reorder the [start, end) range and return the index of the first item in
// the right half.
func (b *builder) split(start, end int, axis Axis, centroidBBox types.AABB) int {
	var mid int
	switch b.method {
	case SplitMidpoint:
		splitPoint := (centroidBBox.Min[axis] + centroidBBox.Max[axis]) * 0.5
		mid = b.partitionAt(start, end, axis, splitPoint)
	case SplitSAH:
		best := b.bestSAHSplit(start, end, centroidBBox)
		if best == nil {
			mid = start
			break
		}
		mid = b.partitionAt(start, end, best.axis, best.splitPoint)
	case SplitEqualCounts:
		return b.splitEqualCounts(start, end, axis)
	}

	if mid != start && mid != end {
		return mid
	}

	b.stats.Fallbacks++
	b.logger.Debugf("%s split failed to separate %d primitives; using equal counts along axis %d", b.method, end-start, axis)
	return b.splitEqualCounts(start, end, axis)
}

// Move all items whose centroid lies below splitPoint along axis in front of
// the rest and return the index of the first item that does not.
func (b *builder) partitionAt(start, end int, axis Axis, splitPoint float32) int {
	mid := start
	for idx := start; idx < end; idx++ {
		if b.infos[idx].centroid[axis] < splitPoint {
			b.infos[idx], b.infos[mid] = b.infos[mid], b.infos[idx]
			mid++
		}
	}
	return mid
}

// Sort the range by centroid along axis and split it in two halves.
func (b *builder) splitEqualCounts(start, end int, axis Axis) int {
	work := b.infos[start:end]
	sort.SliceStable(work, func(i, j int) bool {
		return work[i].centroid[axis] < work[j].centroid[axis]
	})
	return start + (end-start)/2
}

// Evaluate SAH candidates for each axis in parallel and return the best
// split or nil if no candidate separates the range.
func (b *builder) bestSAHSplit(start, end int, centroidBBox types.AABB) *splitScore {
	work := b.infos[start:end]
	side := centroidBBox.Extent()

	pendingScores := 0
	for axis := XAxis; axis <= ZAxis; axis++ {
		if side[axis] == 0 {
			continue
		}

		pendingScores++
		go func(axis Axis) {
			best := splitScore{axis: axis, score: math32.MaxFloat32}
			step := side[axis] / sahBuckets
			for bucket := 1; bucket < sahBuckets; bucket++ {
				splitPoint := centroidBBox.Min[axis] + step*float32(bucket)
				lCount, rCount, score := scoreSplit(work, axis, splitPoint)
				if score < best.score {
					best = splitScore{
						axis:       axis,
						splitPoint: splitPoint,
						leftCount:  lCount,
						rightCount: rCount,
						score:      score,
					}
				}
			}
			b.scoreChan <- best
		}(axis)
	}

	// Ties resolve to the lowest axis so builds are reproducible
	var bestSplit *splitScore
	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if candidate.score == math32.MaxFloat32 {
			continue
		}
		if bestSplit == nil || candidate.score < bestSplit.score ||
			(candidate.score == bestSplit.score && candidate.axis < bestSplit.axis) {
			c := candidate
			bestSplit = &c
		}
	}

	return bestSplit
}

// Score a BVH split based on the surface area heuristic. The SAH calculates
// the split score using the formula (lower score is better):
//
// left count * left BBOX area + rightCount * right BBOX area.
//
// SAH avoids splits that generate empty partitions by assigning the worst
// possible score (MaxFloat32) when it enounters such cases.
func scoreSplit(work []primitiveInfo, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	left := types.EmptyAABB()
	right := types.EmptyAABB()

	for _, info := range work {
		if info.centroid[axis] < splitPoint {
			leftCount++
			left = left.Union(info.bbox)
		} else {
			rightCount++
			right = right.Union(info.bbox)
		}
	}

	// Make sure that we don't generate empty partitions
	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math32.MaxFloat32
	}

	score = float32(leftCount)*left.SurfaceArea() + float32(rightCount)*right.SurfaceArea()
	return leftCount, rightCount, score
}

// Setup the given node as a leaf containing all items in the [start, end)
// range. Returns the index to the node in the bvh node array.
func (b *builder) createLeaf(node *Node, start, end int) uint32 {
	offset := len(b.primitives)
	for _, info := range b.infos[start:end] {
		b.primitives = append(b.primitives, b.input[info.index])
		b.primitiveIndex = append(b.primitiveIndex, info.index)
	}
	node.SetPrimitives(uint32(offset), uint32(end-start))

	if b.leafCb != nil {
		b.leafCb(node, b.primitives[offset:])
	}

	// append node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, *node)

	// update stats
	b.stats.Nodes++
	b.stats.Leafs++

	return uint32(nodeIndex)
}
