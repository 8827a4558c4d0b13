package cmd

import (
	"github.com/achilleasa/meshquery/bvh"
	"github.com/achilleasa/meshquery/octree"
	"github.com/achilleasa/meshquery/query"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Dump the node boxes of the octree or the BVH built over the configured mesh.
func Nodes(ctx *cli.Context) error {
	cfg, err := loadCommandConfig(ctx)
	if err != nil {
		return err
	}
	if err = setupLogging(ctx, cfg); err != nil {
		return err
	}

	method, err := query.ParseMethod(ctx.String("index"))
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	var nodes []nodeRecord
	switch method {
	case query.OctreeMethod:
		nodes = octreeNodes(engine.Octree(), ctx.Bool("non-empty"))
	case query.BVHMethod:
		nodes = bvhNodes(engine.BVH())
	default:
		return errors.Wrapf(query.ErrUnknownMethod, "%s has no node hierarchy", method)
	}

	if cfg.JSON {
		return writeJSON(ctx.App.Writer, nodes)
	}
	logger.Noticef("%s nodes\n%s", method, renderNodeTable(method.String(), nodes))
	return nil
}

func octreeNodes(o *octree.Octree, nonEmpty bool) []nodeRecord {
	var nodes []nodeRecord
	o.Walk(func(node *octree.Node) bool {
		if nonEmpty && node.Count == 0 {
			return false
		}
		nodes = append(nodes, nodeRecord{
			Depth:     node.Depth,
			Leaf:      node.Leaf,
			Triangles: node.Count,
			Min:       node.BBox.Min,
			Max:       node.BBox.Max,
		})
		return true
	})
	return nodes
}

func bvhNodes(tree *bvh.Tree) []nodeRecord {
	var nodes []nodeRecord
	tree.Walk(func(node *bvh.Node, depth int) bool {
		count := 0
		if node.IsLeaf() {
			count = int(node.Count)
		}
		nodes = append(nodes, nodeRecord{
			Depth:     depth,
			Leaf:      node.IsLeaf(),
			Triangles: count,
			Min:       node.BBox.Min,
			Max:       node.BBox.Max,
		})
		return true
	})
	return nodes
}
