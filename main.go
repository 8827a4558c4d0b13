package main

import (
	"os"

	"github.com/achilleasa/meshquery/cmd"
	"github.com/achilleasa/meshquery/log"
	"github.com/urfave/cli"
)

var logger = log.New("meshquery")

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	defaults := cmd.DefaultConfig()
	meshFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load settings from a TOML file; flags override file values",
		},
		cli.StringFlag{
			Name:  "mesh",
			Value: defaults.Mesh,
			Usage: "procedural mesh kind (sphere, soup)",
		},
		cli.IntFlag{
			Name:  "triangles",
			Value: defaults.Triangles,
			Usage: "approximate number of mesh triangles",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: defaults.Seed,
			Usage: "random seed for mesh and query generation",
		},
		cli.IntFlag{
			Name:  "octree-depth",
			Value: defaults.OctreeDepth,
			Usage: "octree leaf depth",
		},
		cli.StringFlag{
			Name:  "bvh-split",
			Value: defaults.BVHSplit,
			Usage: "BVH split method (midpoint, equal, sah)",
		},
		cli.IntFlag{
			Name:  "bvh-leaf-size",
			Value: defaults.BVHLeafSize,
			Usage: "maximum number of primitives in a BVH leaf",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: defaults.LogLevel,
			Usage: "log level (debug, info, notice, warning, error)",
		},
		cli.BoolFlag{
			Name:  "json",
			Usage: "write the report as JSON to stdout",
		},
	}

	app := cli.NewApp()
	app.Name = "meshquery"
	app.Usage = "nearest point and ray queries over triangle meshes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "bench",
			Usage: "compare brute force, octree and BVH queries",
			Description: `
Generate a procedural mesh, build an octree and a BVH over it and run the same
random nearest point and ray queries with every method.

The report lists the mean query time per method together with the error of the
approximate octree nearest point search and any ray hit mismatches against the
brute force results.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "queries, n",
					Value: defaults.Queries,
					Usage: "number of nearest point and ray queries per method",
				},
			}, meshFlags...),
			Action: cmd.Bench,
		},
		{
			Name:  "nodes",
			Usage: "dump the node boxes of an acceleration structure",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "index",
					Value: "octree",
					Usage: "structure to dump (octree, bvh)",
				},
				cli.BoolFlag{
					Name:  "non-empty",
					Usage: "skip octree nodes that hold no triangles",
				},
			}, meshFlags...),
			Action: cmd.Nodes,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
