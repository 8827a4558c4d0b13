package types

// A triangle mesh. The mesh is treated as read-only input by the indices
// and the query engine.
type Mesh struct {
	Triangles []Triangle

	// The union of all triangle bounding boxes.
	BBox AABB
}

// Create a mesh and calculate its bounding box.
func NewMesh(triangles []Triangle) *Mesh {
	bbox := EmptyAABB()
	for _, tri := range triangles {
		bbox = bbox.Union(tri.BBox)
	}

	return &Mesh{
		Triangles: triangles,
		BBox:      bbox,
	}
}
