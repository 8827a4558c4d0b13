package cmd

import (
	"io"
	"os"

	"github.com/achilleasa/meshquery/log"
	"github.com/pkg/errors"
)

var logger = log.New("meshquery")

// The subset of *cli.Context used for reading the global verbosity flags.
type globalFlags interface {
	GlobalBool(name string) bool
}

// JSON reports own stdout so log lines go to stderr instead.
func logSink(cfg Config) io.Writer {
	if cfg.JSON {
		return os.Stderr
	}
	return os.Stdout
}

// Apply the configured sink and log levels; the -v and -vv flags take
// precedence over the configured global level.
func setupLogging(flags globalFlags, cfg Config) error {
	log.SetSink(logSink(cfg))

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if flags.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if flags.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	for module, name := range cfg.ModuleLevels {
		moduleLevel, err := log.ParseLevel(name)
		if err != nil {
			return errors.Wrapf(err, "module %q", module)
		}
		log.SetModuleLevel(module, moduleLevel)
	}

	return nil
}
