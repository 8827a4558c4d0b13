package bvh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/meshquery/types"
	"github.com/stretchr/testify/require"
)

var allMethods = []SplitMethod{SplitMidpoint, SplitEqualCounts, SplitSAH}

func boxTriangle(min, max types.Vec3) types.Triangle {
	return types.NewTriangle(min, types.XYZ(max[0], min[1], max[2]), max)
}

func randomTriangles(seed int64, count int) []types.Triangle {
	rng := rand.New(rand.NewSource(seed))
	tris := make([]types.Triangle, count)
	for idx := range tris {
		v0 := types.XYZ(rng.Float32()*10-5, rng.Float32()*10-5, rng.Float32()*10-5)
		v1 := v0.Add(types.XYZ(rng.Float32(), rng.Float32(), rng.Float32()))
		v2 := v0.Add(types.XYZ(rng.Float32(), rng.Float32(), rng.Float32()))
		tris[idx] = types.NewTriangle(v0, v1, v2)
	}
	return tris
}

func TestLeafCallback(t *testing.T) {
	type primSpec struct {
		min types.Vec3
		max types.Vec3
	}

	primSpecs := []primSpec{
		{types.Vec3{-2, 0, -2}, types.Vec3{-1, 1, -1}},
		{types.Vec3{1, 0, -2}, types.Vec3{2, 1, -1}},
		{types.Vec3{-2, 0, 1}, types.Vec3{-1, 1, 2}},
		{types.Vec3{1, 0, 1}, types.Vec3{2, 1, 2}},
	}

	itemList := make([]types.Triangle, len(primSpecs))
	for idx, ps := range primSpecs {
		itemList[idx] = boxTriangle(ps.min, ps.max)
	}

	var cbCount = 0
	var expItemListCount = 0
	cb := func(leaf *Node, primitives []types.Triangle) {
		cbCount++
		if len(primitives) != expItemListCount {
			t.Fatalf("expected leaf callback to be called with %d items; got %d", expItemListCount, len(primitives))
		}
		if int(leaf.Count) != len(primitives) {
			t.Fatalf("expected leaf count to be %d; got %d", len(primitives), leaf.Count)
		}
	}

	var expCount = 0

	// Partition each item in a single leaf
	cbCount = 0
	expItemListCount = 1
	tree, err := Build(itemList, Options{MaxLeafPrimitives: 1, OnLeaf: cb})
	if err != nil {
		t.Fatal(err)
	}

	expCount = 4
	if cbCount != expCount {
		t.Fatalf("expected leaf callback to be called %d times; called %d", expCount, cbCount)
	}
	expCount = 7
	if tree.NumNodes() != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, tree.NumNodes())
	}
	if tree.Root().Axis != XAxis {
		t.Fatalf("expected root to split along the X axis; got %d", tree.Root().Axis)
	}

	// Partition two items in a single leaf
	cbCount = 0
	expItemListCount = 2
	tree, err = Build(itemList, Options{MaxLeafPrimitives: 2, OnLeaf: cb})
	if err != nil {
		t.Fatal(err)
	}

	expCount = 2
	if cbCount != expCount {
		t.Fatalf("expected leaf callback to be called %d times; called %d", expCount, cbCount)
	}
	expCount = 3
	if tree.NumNodes() != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, tree.NumNodes())
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil, Options{})
	require.ErrorIs(t, err, ErrNoPrimitives)

	_, err = Build(randomTriangles(1, 3), Options{Method: SplitMethod(42)})
	require.ErrorIs(t, err, ErrUnknownSplitMethod)
}

func TestParseSplitMethod(t *testing.T) {
	for _, method := range allMethods {
		parsed, err := ParseSplitMethod(method.String())
		require.NoError(t, err)
		require.Equal(t, method, parsed)
	}

	parsed, err := ParseSplitMethod(" SAH ")
	require.NoError(t, err)
	require.Equal(t, SplitSAH, parsed)

	_, err = ParseSplitMethod("hlbvh")
	require.ErrorIs(t, err, ErrUnknownSplitMethod)
}

func TestPrimitiveReordering(t *testing.T) {
	input := randomTriangles(1234, 500)

	for _, method := range allMethods {
		tree, err := Build(input, Options{Method: method})
		require.NoError(t, err)
		require.Len(t, tree.Primitives(), len(input), "method %s", method)

		// Concatenating every leaf slice must yield each input triangle
		// exactly once.
		seen := make([]int, len(input))
		tree.Walk(func(node *Node, _ int) bool {
			if !node.IsLeaf() {
				require.Zero(t, node.Count)
				return true
			}

			require.NotZero(t, node.Count)
			for slot := node.Offset; slot < node.Offset+node.Count; slot++ {
				orig := tree.OriginalIndex(slot)
				require.True(t, input[orig].Equal(tree.Primitives()[slot]))
				seen[orig]++
			}
			return true
		})

		for idx, count := range seen {
			require.Equal(t, 1, count, "method %s: triangle %d", method, idx)
		}
	}
}

func TestBBoxInvariant(t *testing.T) {
	input := randomTriangles(99, 300)

	meshBBox := types.EmptyAABB()
	for _, tri := range input {
		meshBBox = meshBBox.Union(tri.BBox)
	}

	for _, method := range allMethods {
		tree, err := Build(input, Options{Method: method, MaxLeafPrimitives: 4})
		require.NoError(t, err)
		require.Equal(t, meshBBox, tree.Root().BBox, "method %s", method)

		tree.Walk(func(node *Node, _ int) bool {
			if node.IsLeaf() {
				leafBBox := types.EmptyAABB()
				for _, tri := range tree.LeafPrimitives(node) {
					leafBBox = leafBBox.Union(tri.BBox)
				}
				require.Equal(t, leafBBox, node.BBox)
				require.LessOrEqual(t, int(node.Count), 4)
				return true
			}

			union := tree.Node(node.Left).BBox.Union(tree.Node(node.Right).BBox)
			require.Equal(t, union, node.BBox, "method %s", method)
			return true
		})
	}
}

func TestIdenticalPrimitivesFormSingleLeaf(t *testing.T) {
	tri := types.NewTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0))
	input := []types.Triangle{tri, tri, tri, tri, tri}

	for _, method := range allMethods {
		tree, err := Build(input, Options{Method: method})
		require.NoError(t, err)
		require.Equal(t, 1, tree.NumNodes())
		require.True(t, tree.Root().IsLeaf())
		require.EqualValues(t, len(input), tree.Root().Count)
	}
}

func TestMidpointFallback(t *testing.T) {
	// Centroids one ulp apart; their midpoint rounds onto the lower one so
	// the midpoint partition leaves the left side empty.
	lo := float32(1)
	hi := math.Nextafter32(lo, 2)
	tri := func(x float32) types.Triangle {
		return types.NewTriangle(types.XYZ(x, 0, 0), types.XYZ(x, 1, 0), types.XYZ(x, 0, 1))
	}
	input := []types.Triangle{tri(hi), tri(lo), tri(hi), tri(lo)}

	tree, err := Build(input, Options{Method: SplitMidpoint})
	require.NoError(t, err)

	stats := tree.Stats()
	require.Equal(t, 1, stats.Fallbacks)
	require.Zero(t, stats.ForcedLeafs)
	require.Equal(t, 3, stats.Nodes)
	require.Equal(t, 2, stats.Leafs)

	root := tree.Root()
	require.False(t, root.IsLeaf())
	require.Equal(t, XAxis, root.Axis)
	for _, prim := range tree.LeafPrimitives(tree.Node(root.Left)) {
		require.Equal(t, lo, prim.Vertices[0][0])
	}
	for _, prim := range tree.LeafPrimitives(tree.Node(root.Right)) {
		require.Equal(t, hi, prim.Vertices[0][0])
	}
}

func TestDominantAxisSplit(t *testing.T) {
	input := []types.Triangle{
		boxTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1)),
		boxTriangle(types.XYZ(0, 10, 0), types.XYZ(1, 11, 1)),
		boxTriangle(types.XYZ(3, 0, 0), types.XYZ(4, 1, 1)),
	}

	tree, err := Build(input, Options{})
	require.NoError(t, err)
	require.Equal(t, YAxis, tree.Root().Axis)

	// The lower half along Y holds the first and third triangles.
	left := tree.Node(tree.Root().Left)
	require.False(t, left.IsLeaf())
	require.Equal(t, XAxis, left.Axis)
	require.True(t, tree.Node(tree.Root().Right).IsLeaf())
}

func TestDeterministicBuild(t *testing.T) {
	input := randomTriangles(5, 200)

	for _, method := range allMethods {
		a, err := Build(input, Options{Method: method})
		require.NoError(t, err)
		b, err := Build(input, Options{Method: method})
		require.NoError(t, err)

		require.Equal(t, a.NodeBoxes(), b.NodeBoxes(), "method %s", method)
		require.Equal(t, a.Primitives(), b.Primitives(), "method %s", method)
	}
}
