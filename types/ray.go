package types

// A ray with an origin and a direction. The direction does not need to be
// normalized; parametric distances are expressed in multiples of it.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// Create a new ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Direction: dir}
}

// Get the point at parametric distance t along the ray.
func (r Ray) PointAt(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
