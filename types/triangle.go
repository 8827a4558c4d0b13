package types

// A mesh triangle with per-vertex normals and a precomputed bounding box.
type Triangle struct {
	Vertices [3]Vec3
	Normals  [3]Vec3

	// Tight bound of the three vertices.
	BBox AABB
}

// Create a triangle and calculate its bounding box. If no normals are
// supplied the face normal is assigned to all vertices.
func NewTriangle(v0, v1, v2 Vec3, normals ...Vec3) Triangle {
	t := Triangle{
		Vertices: [3]Vec3{v0, v1, v2},
		BBox:     AABBFromPoints(v0, v1, v2),
	}

	if len(normals) == 3 {
		copy(t.Normals[:], normals)
	} else {
		n := t.FaceNormal()
		t.Normals = [3]Vec3{n, n, n}
	}
	return t
}

// Get the normalized face normal using the vertex winding order.
func (t Triangle) FaceNormal() Vec3 {
	return t.Vertices[1].Sub(t.Vertices[0]).Cross(t.Vertices[2].Sub(t.Vertices[0])).Normalize()
}

// Get the triangle centroid, defined as the center of its bounding box.
func (t Triangle) Centroid() Vec3 {
	return t.BBox.Center()
}

// Two triangles are equal when their vertex positions match. Normals and
// bounding boxes are not compared.
func (t Triangle) Equal(other Triangle) bool {
	return t.Vertices == other.Vertices
}
