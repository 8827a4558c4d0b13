// Package scene generates procedural triangle meshes for benchmarking and
// testing the spatial indices.
package scene

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/achilleasa/meshquery/types"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// The kind of procedural mesh to generate.
type Kind uint8

const (
	// A closed UV sphere.
	SphereKind Kind = iota

	// Randomly placed and oriented triangles.
	SoupKind
)

var ErrUnknownKind = errors.New("scene: unknown mesh kind")

var kindNames = map[Kind]string{
	SphereKind: "sphere",
	SoupKind:   "soup",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Parse a mesh kind name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return SphereKind, errors.Wrapf(ErrUnknownKind, "parse %q", name)
}

// Generate a mesh of the given kind with approximately triangleCount
// triangles. Meshes are centered at the origin and fit in [-2, 2]^3.
func Generate(kind Kind, triangleCount int, seed int64) (*types.Mesh, error) {
	if triangleCount < 1 {
		return nil, errors.Errorf("scene: invalid triangle count %d", triangleCount)
	}

	switch kind {
	case SphereKind:
		// A sphere with n rings and 2n segments has 4n(n-1) triangles.
		rings := 2
		for 4*(rings+1)*rings <= triangleCount {
			rings++
		}
		return types.NewMesh(Sphere(types.XYZ(0, 0, 0), 1.5, rings, 2*rings)), nil
	case SoupKind:
		rng := rand.New(rand.NewSource(seed))
		bbox := types.NewAABB(types.Splat(-1.75), types.Splat(1.75))
		return types.NewMesh(TriangleSoup(rng, triangleCount, bbox, 0.5)), nil
	}

	return nil, errors.Wrapf(ErrUnknownKind, "generate %s", kind)
}

// Tessellate a sphere into rings x segments quads. The quads touching the
// poles collapse into single triangles.
func Sphere(center types.Vec3, radius float32, rings, segments int) []types.Triangle {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	point := func(ring, segment int) types.Vec3 {
		theta := math32.Pi * float32(ring) / float32(rings)
		phi := 2 * math32.Pi * float32(segment%segments) / float32(segments)
		sinTheta := math32.Sin(theta)
		return types.XYZ(
			sinTheta*math32.Cos(phi),
			math32.Cos(theta),
			sinTheta*math32.Sin(phi),
		)
	}

	tri := func(n0, n1, n2 types.Vec3) types.Triangle {
		return types.NewTriangle(
			center.Add(n0.Mul(radius)), center.Add(n1.Mul(radius)), center.Add(n2.Mul(radius)),
			n0, n1, n2,
		)
	}

	out := make([]types.Triangle, 0, 2*segments*(rings-1))
	for ring := 0; ring < rings; ring++ {
		for segment := 0; segment < segments; segment++ {
			p00 := point(ring, segment)
			p01 := point(ring, segment+1)
			p10 := point(ring+1, segment)
			p11 := point(ring+1, segment+1)

			if ring != rings-1 {
				out = append(out, tri(p00, p11, p10))
			}
			if ring != 0 {
				out = append(out, tri(p00, p01, p11))
			}
		}
	}

	return out
}

// Generate randomly oriented triangles with a vertex inside bbox and edges
// no longer than maxEdge along each axis.
func TriangleSoup(rng *rand.Rand, count int, bbox types.AABB, maxEdge float32) []types.Triangle {
	side := bbox.Extent()
	randPoint := func() types.Vec3 {
		return types.XYZ(
			bbox.Min[0]+rng.Float32()*side[0],
			bbox.Min[1]+rng.Float32()*side[1],
			bbox.Min[2]+rng.Float32()*side[2],
		)
	}
	randEdge := func() types.Vec3 {
		return types.XYZ(rng.Float32()-0.5, rng.Float32()-0.5, rng.Float32()-0.5).Mul(maxEdge)
	}

	out := make([]types.Triangle, count)
	for idx := range out {
		v0 := randPoint()
		out[idx] = types.NewTriangle(v0, v0.Add(randEdge()), v0.Add(randEdge()))
	}
	return out
}

// Generate count random points inside bbox.
func RandomPoints(rng *rand.Rand, count int, bbox types.AABB) []types.Vec3 {
	side := bbox.Extent()
	out := make([]types.Vec3, count)
	for idx := range out {
		out[idx] = types.XYZ(
			bbox.Min[0]+rng.Float32()*side[0],
			bbox.Min[1]+rng.Float32()*side[1],
			bbox.Min[2]+rng.Float32()*side[2],
		)
	}
	return out
}

// Generate count rays that start on a sphere enclosing bbox and point at a
// random location inside it.
func RandomRays(rng *rand.Rand, count int, bbox types.AABB) []types.Ray {
	center := bbox.Center()
	radius := bbox.Extent().Len()
	targets := RandomPoints(rng, count, bbox)

	out := make([]types.Ray, count)
	for idx := range out {
		dir := types.XYZ(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1).Normalize()
		if dir.LenSq() == 0 {
			dir = types.XYZ(0, 0, 1)
		}
		origin := center.Add(dir.Mul(radius))
		out[idx] = types.NewRay(origin, targets[idx].Sub(origin))
	}
	return out
}
