package types

import "github.com/chewxy/math32"

// An axis-aligned bounding box. A non-empty box satisfies Min[i] <= Max[i]
// on every axis. The empty box has Min = +Inf and Max = -Inf so that
// extending it by any point yields a valid box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Create an empty bounding box.
func EmptyAABB() AABB {
	return AABB{
		Min: Splat(math32.Inf(1)),
		Max: Splat(math32.Inf(-1)),
	}
}

// Create a bounding box from its two extents.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Create the tightest bounding box enclosing a set of points.
func AABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box.Extend(p)
	}
	return box
}

// Returns true if the box does not enclose any point.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Grow the box so that it encloses p.
func (b *AABB) Extend(p Vec3) {
	b.Min = MinVec3(b.Min, p)
	b.Max = MaxVec3(b.Max, p)
}

// Return the union of two boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: MinVec3(b.Min, other.Min),
		Max: MaxVec3(b.Max, other.Max),
	}
}

// Get the box center.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the box side lengths.
func (b AABB) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the axis along which the box is longest.
func (b AABB) DominantAxis() int {
	return b.Extent().MaxComponent()
}

// Get the box surface area.
func (b AABB) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	side := b.Extent()
	return 2 * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}

// Returns true if p lies inside or on the box.
func (b AABB) Contains(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}
