package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file, looked up
// in the project root.
const FileName = ".pymap.yaml"

type Options struct {
	Output     string   `yaml:"output"`      // report file name, root-relative
	Collisions string   `yaml:"collisions"`  // "last" or "first"
	IgnoreDirs []string `yaml:"ignore_dirs"` // extra directory names to prune
}

func Defaults() *Options {
	return &Options{
		Output:     "mapping.md",
		Collisions: "last",
	}
}

// Load reads the project's .pymap.yaml if present, filling omitted
// fields with defaults. A missing file is not an error; a malformed
// one is.
func Load(root string) (*Options, error) {
	opts := Defaults()

	path := filepath.Join(root, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, opts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	if opts.Output == "" {
		opts.Output = "mapping.md"
	}
	switch opts.Collisions {
	case "":
		opts.Collisions = "last"
	case "last", "first":
	default:
		return nil, fmt.Errorf("%s: unknown collisions policy %q (want \"last\" or \"first\")", FileName, opts.Collisions)
	}

	return opts, nil
}
