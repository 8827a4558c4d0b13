package cmd

import (
	"bytes"
	"testing"

	"github.com/achilleasa/meshquery/query"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func benchConfig() Config {
	cfg := DefaultConfig()
	cfg.Mesh = "soup"
	cfg.Triangles = 200
	cfg.Queries = 50
	cfg.OctreeDepth = 2
	return cfg
}

func TestRunBench(t *testing.T) {
	cfg := benchConfig()
	engine, err := buildEngine(cfg)
	require.NoError(t, err)

	report, err := runBench(engine, cfg)
	require.NoError(t, err)
	require.Equal(t, 200, report.Triangles)
	require.Len(t, report.Indices, 2)
	require.Len(t, report.Methods, len(query.Methods))

	brute := report.Methods[0]
	require.Equal(t, query.BruteForce.String(), brute.Method)
	require.Equal(t, cfg.Queries, brute.ExactNearest)
	require.Zero(t, brute.MaxNearestError)
	require.Zero(t, brute.RayMismatches)

	for _, m := range report.Methods {
		require.Zero(t, m.RayMismatches, m.Method)
		require.Equal(t, brute.RayHits, m.RayHits, m.Method)
	}

	bvhReport := report.Methods[2]
	require.Equal(t, query.BVHMethod.String(), bvhReport.Method)
	require.Equal(t, cfg.Queries, bvhReport.ExactNearest)

	tables := renderBenchTables(report)
	require.Contains(t, tables, "octree")
	require.Contains(t, tables, "brute-force")
}

func TestBenchReportJSON(t *testing.T) {
	cfg := benchConfig()
	cfg.Queries = 5
	engine, err := buildEngine(cfg)
	require.NoError(t, err)
	report, err := runBench(engine, cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, report))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "soup", decoded["mesh"])
	require.Len(t, decoded["methods"], 3)
	require.Len(t, decoded["indices"], 2)
}

func TestBuildEngineErrors(t *testing.T) {
	cfg := benchConfig()
	cfg.Mesh = "teapot"
	_, err := buildEngine(cfg)
	require.Error(t, err)

	cfg = benchConfig()
	cfg.BVHSplit = "unknown"
	_, err = buildEngine(cfg)
	require.Error(t, err)
}

func TestNodeRecords(t *testing.T) {
	cfg := benchConfig()
	engine, err := buildEngine(cfg)
	require.NoError(t, err)

	all := octreeNodes(engine.Octree(), false)
	require.Len(t, all, engine.Octree().Stats().Nodes)
	require.Equal(t, 0, all[0].Depth)

	nonEmpty := octreeNodes(engine.Octree(), true)
	require.LessOrEqual(t, len(nonEmpty), len(all))
	for _, node := range nonEmpty {
		require.Positive(t, node.Triangles)
	}

	bvhRecords := bvhNodes(engine.BVH())
	require.Len(t, bvhRecords, engine.BVH().NumNodes())
	leafTriangles := 0
	for _, node := range bvhRecords {
		leafTriangles += node.Triangles
	}
	require.Equal(t, cfg.Triangles, leafTriangles)

	require.Contains(t, renderNodeTable("bvh", bvhRecords), "bvh")
}
