package cmd

import (
	"math/rand"
	"time"

	"github.com/achilleasa/meshquery/query"
	"github.com/achilleasa/meshquery/scene"
	"github.com/achilleasa/meshquery/types"
	"github.com/chewxy/math32"
	"github.com/urfave/cli"
)

// Generate the configured mesh and build all indices over it.
func buildEngine(cfg Config) (*query.Engine, error) {
	opts, err := cfg.engineOptions()
	if err != nil {
		return nil, err
	}

	kind, err := scene.ParseKind(cfg.Mesh)
	if err != nil {
		return nil, err
	}

	mesh, err := scene.Generate(kind, cfg.Triangles, cfg.Seed)
	if err != nil {
		return nil, err
	}
	logger.Infof("generated %s mesh with %d triangles", kind, len(mesh.Triangles))

	return query.NewEngine(mesh, opts)
}

// Run random nearest point and ray queries against every method.
func Bench(ctx *cli.Context) error {
	cfg, err := loadCommandConfig(ctx)
	if err != nil {
		return err
	}
	if err = setupLogging(ctx, cfg); err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	report, err := runBench(engine, cfg)
	if err != nil {
		return err
	}

	if cfg.JSON {
		return writeJSON(ctx.App.Writer, report)
	}
	logger.Noticef("benchmark results\n%s", renderBenchTables(report))
	return nil
}

// Query bounds are the mesh box grown by half its size so that some of the
// points lie outside the mesh.
func queryBounds(mesh *types.Mesh) types.AABB {
	center := mesh.BBox.Center()
	halfSize := mesh.BBox.Extent().Mul(0.75)
	return types.NewAABB(center.Sub(halfSize), center.Add(halfSize))
}

func runBench(engine *query.Engine, cfg Config) (benchReport, error) {
	mesh := engine.Mesh()
	octStats := engine.Octree().Stats()
	bvhStats := engine.BVH().Stats()

	report := benchReport{
		Mesh:      cfg.Mesh,
		Triangles: len(mesh.Triangles),
		Queries:   cfg.Queries,
		Seed:      cfg.Seed,
		Indices: []indexReport{
			{
				Index:      query.OctreeMethod.String(),
				Nodes:      octStats.Nodes,
				Leafs:      octStats.Leafs,
				MaxDepth:   octStats.MaxDepth,
				References: octStats.References,
				BuildTime:  octStats.BuildTime,
			},
			{
				Index:      query.BVHMethod.String(),
				Nodes:      bvhStats.Nodes,
				Leafs:      bvhStats.Leafs,
				MaxDepth:   bvhStats.MaxDepth,
				References: bvhStats.Primitives,
				BuildTime:  bvhStats.BuildTime,
			},
		},
	}

	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	points := scene.RandomPoints(rng, cfg.Queries, queryBounds(mesh))
	rays := scene.RandomRays(rng, cfg.Queries, mesh.BBox)

	// Brute force results are the reference for every other method.
	exactNearest := make([]query.NearestResult, len(points))
	exactHits := make([]query.Hit, len(rays))
	exactHitFlags := make([]bool, len(rays))

	for _, method := range query.Methods {
		m := methodReport{Method: method.String()}

		var nearestTotal, rayTotal time.Duration
		var errorTotal float32
		for idx, p := range points {
			res, elapsed, err := engine.TimedNearest(method, p)
			if err != nil {
				return benchReport{}, err
			}
			nearestTotal += elapsed

			if method == query.BruteForce {
				exactNearest[idx] = res
			}
			delta := math32.Abs(res.Distance - exactNearest[idx].Distance)
			if delta == 0 {
				m.ExactNearest++
			}
			errorTotal += delta
			if delta > m.MaxNearestError {
				m.MaxNearestError = delta
			}
		}

		for idx, r := range rays {
			hit, ok, elapsed, err := engine.TimedIntersect(method, r)
			if err != nil {
				return benchReport{}, err
			}
			rayTotal += elapsed

			if method == query.BruteForce {
				exactHits[idx], exactHitFlags[idx] = hit, ok
			}
			if ok {
				m.RayHits++
			}
			if ok != exactHitFlags[idx] || (ok && hit.T != exactHits[idx].T) {
				m.RayMismatches++
			}
		}

		if n := len(points); n > 0 {
			m.NearestMean = nearestTotal / time.Duration(n)
			m.MeanNearestError = errorTotal / float32(n)
		}
		if n := len(rays); n > 0 {
			m.RayMean = rayTotal / time.Duration(n)
		}

		logger.Debugf("%s: nearest mean %s, ray mean %s", method, m.NearestMean, m.RayMean)
		report.Methods = append(report.Methods, m)
	}

	return report, nil
}
