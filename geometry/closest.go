package geometry

import "github.com/achilleasa/meshquery/types"

// Find the point on a triangle that is closest to p.
//
// The Voronoi regions of the triangle are evaluated in the order vertex A,
// vertex B, edge AB, vertex C, edge AC, edge BC and face interior; points on
// a region boundary resolve to the first matching region.
func ClosestPointOnTriangle(p types.Vec3, tri types.Triangle) types.Vec3 {
	a, b, c := tri.Vertices[0], tri.Vertices[1], tri.Vertices[2]
	ab := b.Sub(a)
	ac := c.Sub(a)

	// Vertex A
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	// Vertex B
	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	// Edge AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	// Vertex C
	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	// Edge AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	// Edge BC
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	// Face interior
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// Clamp p into the box.
func ClosestPointOnBox(p types.Vec3, box types.AABB) types.Vec3 {
	out := p
	for axis := 0; axis < 3; axis++ {
		if out[axis] < box.Min[axis] {
			out[axis] = box.Min[axis]
		}
		if out[axis] > box.Max[axis] {
			out[axis] = box.Max[axis]
		}
	}
	return out
}

// Get the squared distance between p and a box. The distance is zero when p
// lies inside or on the box.
func SqDistancePointBox(p types.Vec3, box types.AABB) float32 {
	var sqDist float32
	for axis := 0; axis < 3; axis++ {
		v := p[axis]
		if v < box.Min[axis] {
			sqDist += (box.Min[axis] - v) * (box.Min[axis] - v)
		}
		if v > box.Max[axis] {
			sqDist += (v - box.Max[axis]) * (v - box.Max[axis])
		}
	}
	return sqDist
}
