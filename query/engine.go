package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/achilleasa/meshquery/bvh"
	"github.com/achilleasa/meshquery/log"
	"github.com/achilleasa/meshquery/octree"
	"github.com/achilleasa/meshquery/types"
	"github.com/pkg/errors"
)

// The acceleration method used for answering a query.
type Method uint8

const (
	BruteForce Method = iota
	OctreeMethod
	BVHMethod
)

// All supported methods in reporting order.
var Methods = []Method{BruteForce, OctreeMethod, BVHMethod}

var methodNames = map[Method]string{
	BruteForce:   "brute-force",
	OctreeMethod: "octree",
	BVHMethod:    "bvh",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", m)
}

// Parse a method name.
func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for method, methodName := range methodNames {
		if methodName == name {
			return method, nil
		}
	}
	return BruteForce, errors.Wrapf(ErrUnknownMethod, "parse %q", name)
}

// Engine options.
type Options struct {
	// Depth of the octree leafs. Values < 1 select octree.DefaultMaxDepth;
	// values above octree.MaxDepthLimit are clamped.
	OctreeDepth int

	// BVH build options.
	BVH bvh.Options
}

// Engine answers queries against a mesh using any of the supported methods.
// Indices are built once by NewEngine; the engine is read-only afterwards.
type Engine struct {
	logger log.Logger

	mesh   *types.Mesh
	octree *octree.Octree
	bvh    *bvh.Tree
}

// Build all acceleration structures for a mesh.
func NewEngine(mesh *types.Mesh, opts Options) (*Engine, error) {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return nil, errors.Wrap(ErrEmptyTriangleSet, "create query engine")
	}

	e := &Engine{
		logger: log.New("query"),
		mesh:   mesh,
	}

	depth := opts.OctreeDepth
	if depth < 1 {
		depth = octree.DefaultMaxDepth
	}
	e.octree = octree.Build(mesh.BBox, mesh.Triangles, depth)
	octStats := e.octree.Stats()
	e.logger.Infof(
		"built octree in %s (depth: %d, leafs: %d, references: %d)",
		octStats.BuildTime, octStats.MaxDepth, octStats.Leafs, octStats.References,
	)

	var err error
	if e.bvh, err = bvh.Build(mesh.Triangles, opts.BVH); err != nil {
		return nil, errors.Wrap(err, "create query engine")
	}
	bvhStats := e.bvh.Stats()
	e.logger.Infof(
		"built %s BVH in %s (depth: %d, nodes: %d, leafs: %d)",
		e.bvh.Method(), bvhStats.BuildTime, bvhStats.MaxDepth, bvhStats.Nodes, bvhStats.Leafs,
	)

	return e, nil
}

// Get the queried mesh.
func (e *Engine) Mesh() *types.Mesh {
	return e.mesh
}

// Get the octree index.
func (e *Engine) Octree() *octree.Octree {
	return e.octree
}

// Get the BVH index.
func (e *Engine) BVH() *bvh.Tree {
	return e.bvh
}

// Find the point on the mesh closest to p.
func (e *Engine) Nearest(method Method, p types.Vec3) (NearestResult, error) {
	switch method {
	case BruteForce:
		return NearestPoint(p, e.mesh.Triangles)
	case OctreeMethod:
		return NearestPointOctree(p, e.octree)
	case BVHMethod:
		return NearestPointBVH(p, e.bvh)
	}
	return NearestResult{}, errors.Wrapf(ErrUnknownMethod, "nearest point using %s", method)
}

// Find the closest ray hit.
func (e *Engine) Intersect(method Method, r types.Ray) (Hit, bool, error) {
	switch method {
	case BruteForce:
		return IntersectRay(r, e.mesh.Triangles)
	case OctreeMethod:
		return IntersectRayOctree(r, e.octree)
	case BVHMethod:
		return IntersectRayBVH(r, e.bvh)
	}
	return Hit{}, false, errors.Wrapf(ErrUnknownMethod, "ray intersection using %s", method)
}

// Run a nearest point query and measure its duration.
func (e *Engine) TimedNearest(method Method, p types.Vec3) (NearestResult, time.Duration, error) {
	start := time.Now()
	res, err := e.Nearest(method, p)
	return res, time.Since(start), err
}

// Run a ray intersection query and measure its duration.
func (e *Engine) TimedIntersect(method Method, r types.Ray) (Hit, bool, time.Duration, error) {
	start := time.Now()
	hit, ok, err := e.Intersect(method, r)
	return hit, ok, time.Since(start), err
}
