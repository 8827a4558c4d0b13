package scene

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/meshquery/types"
	"github.com/stretchr/testify/require"
)

func TestSphere(t *testing.T) {
	center := types.XYZ(1, 2, 3)
	tris := Sphere(center, 2, 6, 12)
	require.Len(t, tris, 4*6*5)

	for _, tri := range tris {
		for idx, v := range tri.Vertices {
			require.InDelta(t, 2, v.Distance(center), 1e-4)
			require.InDelta(t, 1, tri.Normals[idx].Len(), 1e-4)
		}
		// Poles must not produce degenerate triangles
		require.Greater(t, tri.Vertices[1].Sub(tri.Vertices[0]).Cross(tri.Vertices[2].Sub(tri.Vertices[0])).Len(), float32(1e-6))
	}
}

func TestGenerate(t *testing.T) {
	bounds := types.NewAABB(types.Splat(-2), types.Splat(2))

	for _, kind := range []Kind{SphereKind, SoupKind} {
		mesh, err := Generate(kind, 1000, 1)
		require.NoError(t, err)
		require.NotEmpty(t, mesh.Triangles)
		require.LessOrEqual(t, len(mesh.Triangles), 1000)
		require.True(t, bounds.Contains(mesh.BBox.Min), "kind %s", kind)
		require.True(t, bounds.Contains(mesh.BBox.Max), "kind %s", kind)
	}

	soupA, err := Generate(SoupKind, 100, 7)
	require.NoError(t, err)
	soupB, err := Generate(SoupKind, 100, 7)
	require.NoError(t, err)
	require.Equal(t, soupA.Triangles, soupB.Triangles)

	_, err = Generate(SoupKind, 0, 7)
	require.Error(t, err)

	_, err = Generate(Kind(9), 10, 7)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("Soup")
	require.NoError(t, err)
	require.Equal(t, SoupKind, kind)

	_, err = ParseKind("teapot")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestRandomRays(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	bbox := types.NewAABB(types.Splat(-1), types.Splat(1))
	padded := types.NewAABB(types.Splat(-1.001), types.Splat(1.001))
	for _, ray := range RandomRays(rng, 50, bbox) {
		require.False(t, padded.Contains(ray.Origin))
		require.True(t, padded.Contains(ray.PointAt(1)))
	}
}
