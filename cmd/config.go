package cmd

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/achilleasa/meshquery/bvh"
	"github.com/achilleasa/meshquery/octree"
	"github.com/achilleasa/meshquery/query"
	"github.com/achilleasa/meshquery/scene"
	"github.com/pkg/errors"
)

// ErrUnknownConfigKeys is returned when a config file contains keys that do
// not map to a Config field.
var ErrUnknownConfigKeys = errors.New("cmd: unknown config keys")

// Config holds the settings shared by the bench and nodes commands.
type Config struct {
	Mesh        string `toml:"mesh"`
	Triangles   int    `toml:"triangles"`
	Queries     int    `toml:"queries"`
	Seed        int64  `toml:"seed"`
	OctreeDepth int    `toml:"octree_depth"`
	BVHSplit    string `toml:"bvh_split"`
	BVHLeafSize int    `toml:"bvh_leaf_size"`
	LogLevel    string `toml:"log_level"`
	JSON        bool   `toml:"json"`

	// Per-module log level overrides keyed by module name, e.g.
	// octree = "debug".
	ModuleLevels map[string]string `toml:"module_levels"`
}

// DefaultConfig returns the settings used when neither a config file nor a
// flag provides a value.
func DefaultConfig() Config {
	return Config{
		Mesh:        scene.SphereKind.String(),
		Triangles:   5000,
		Queries:     1000,
		Seed:        1,
		OctreeDepth: 3,
		BVHSplit:    bvh.SplitMidpoint.String(),
		BVHLeafSize: 1,
		LogLevel:    "notice",
	}
}

// LoadConfig decodes a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load config %q", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for idx, key := range undecoded {
			keys[idx] = key.String()
		}
		return Config{}, errors.Wrapf(ErrUnknownConfigKeys, "load config %q: [%s]", path, strings.Join(keys, ", "))
	}

	return cfg, nil
}

// The subset of *cli.Context used for applying flag overrides.
type flagSource interface {
	IsSet(name string) bool
	String(name string) string
	Int(name string) int
	Int64(name string) int64
	Bool(name string) bool
}

// Override config values with any flags that were explicitly set.
func (c *Config) applyFlags(flags flagSource) {
	if flags.IsSet("mesh") {
		c.Mesh = flags.String("mesh")
	}
	if flags.IsSet("triangles") {
		c.Triangles = flags.Int("triangles")
	}
	if flags.IsSet("queries") {
		c.Queries = flags.Int("queries")
	}
	if flags.IsSet("seed") {
		c.Seed = flags.Int64("seed")
	}
	if flags.IsSet("octree-depth") {
		c.OctreeDepth = flags.Int("octree-depth")
	}
	if flags.IsSet("bvh-split") {
		c.BVHSplit = flags.String("bvh-split")
	}
	if flags.IsSet("bvh-leaf-size") {
		c.BVHLeafSize = flags.Int("bvh-leaf-size")
	}
	if flags.IsSet("log-level") {
		c.LogLevel = flags.String("log-level")
	}
	if flags.IsSet("json") {
		c.JSON = flags.Bool("json")
	}
}

// Validate the config and convert it to engine options.
func (c Config) engineOptions() (query.Options, error) {
	if c.Triangles < 1 {
		return query.Options{}, errors.Errorf("cmd: triangles must be positive; got %d", c.Triangles)
	}
	if c.Queries < 0 {
		return query.Options{}, errors.Errorf("cmd: queries must not be negative; got %d", c.Queries)
	}
	if c.OctreeDepth < 1 || c.OctreeDepth > octree.MaxDepthLimit {
		return query.Options{}, errors.Errorf("cmd: octree depth must be in [1, %d]; got %d", octree.MaxDepthLimit, c.OctreeDepth)
	}

	method, err := bvh.ParseSplitMethod(c.BVHSplit)
	if err != nil {
		return query.Options{}, err
	}

	return query.Options{
		OctreeDepth: c.OctreeDepth,
		BVH: bvh.Options{
			Method:            method,
			MaxLeafPrimitives: c.BVHLeafSize,
		},
	}, nil
}

// Resolve the config from the --config file and the explicitly set flags.
func loadCommandConfig(flags flagSource) (Config, error) {
	cfg := DefaultConfig()
	if path := flags.String("config"); path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyFlags(flags)
	return cfg, nil
}
