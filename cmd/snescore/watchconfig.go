package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lavendersprite/snes816/watch"
)

// watchConfig is the on-disk shape of a watch-registration list: a
// script host's declarative alternative to calling Dispatcher.Register
// once per callback from code.
type watchConfig struct {
	Watches []watchEntry `yaml:"watches"`
}

type watchEntry struct {
	Kind           string `yaml:"kind"` // "read", "write", or "exec"
	Start          uint32 `yaml:"start"`
	End            uint32 `yaml:"end"`
	CpuType        int    `yaml:"cpu_type"`
	Reference      int    `yaml:"reference"`
	DirectOnly     bool   `yaml:"direct_only"`
	MultiReference bool   `yaml:"multi_reference"`
}

func kindFromString(s string) (watch.CallbackType, error) {
	switch s {
	case "read":
		return watch.CallbackRead, nil
	case "write":
		return watch.CallbackWrite, nil
	case "exec":
		return watch.CallbackExec, nil
	default:
		return 0, fmt.Errorf("unknown watch kind %q (want read, write, or exec)", s)
	}
}

func loadWatchConfig(path string) (*watchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading watch config %s", path)
	}
	var cfg watchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing watch config %s", path)
	}
	return &cfg, nil
}

// apply installs every entry in cfg onto d, in file order.
func (cfg *watchConfig) apply(d *watch.Dispatcher) error {
	for i, e := range cfg.Watches {
		kind, err := kindFromString(e.Kind)
		if err != nil {
			return errors.Wrapf(err, "watch entry %d", i)
		}
		d.Register(kind, e.Start, e.End, e.CpuType, e.Reference, e.DirectOnly, e.MultiReference)
	}
	return nil
}
