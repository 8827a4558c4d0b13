package cmd

import (
	"os"
	"testing"

	"github.com/achilleasa/meshquery/log"
	"github.com/stretchr/testify/require"
)

type fakeGlobalFlags map[string]bool

func (f fakeGlobalFlags) GlobalBool(name string) bool {
	return f[name]
}

func TestLogSink(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, os.Stdout, logSink(cfg))

	cfg.JSON = true
	require.Equal(t, os.Stderr, logSink(cfg))
}

func TestSetupLogging(t *testing.T) {
	defer func() {
		log.SetSink(os.Stdout)
		log.SetLevel(log.Notice)
	}()

	cfg := DefaultConfig()
	cfg.JSON = true
	cfg.ModuleLevels = map[string]string{"octree": "debug", "bvh": "warning"}
	require.NoError(t, setupLogging(fakeGlobalFlags{"v": true}, cfg))

	cfg.ModuleLevels = map[string]string{"query": "chatty"}
	require.Error(t, setupLogging(fakeGlobalFlags{}, cfg))

	cfg = DefaultConfig()
	cfg.LogLevel = "chatty"
	require.Error(t, setupLogging(fakeGlobalFlags{}, cfg))
}

func TestLoadConfigModuleLevels(t *testing.T) {
	path := writeConfig(t, `
log_level = "warning"

[module_levels]
octree = "debug"
bvh = "info"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "warning", cfg.LogLevel)
	require.Equal(t, map[string]string{"octree": "debug", "bvh": "info"}, cfg.ModuleLevels)
}
