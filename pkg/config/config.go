// Package config reads the optional .bddcli.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"github.com/dansimau/bddcli/pkg/fsutil"
	"github.com/dansimau/bddcli/pkg/runner"
	"gopkg.in/yaml.v2"
)

// FileName is the name of the config file, searched for in the working
// directory and its parents.
const FileName = ".bddcli.yaml"

type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path string `yaml:"-"`

	Bootstrapper string            `yaml:"bootstrapper,omitempty"`
	Application  bddcli.App        `yaml:"application,omitempty"`
	WorkingDir   string            `yaml:"workingDir,omitempty"`
	Environ      map[string]string `yaml:"environ,omitempty"`
}

// Find returns the path of the nearest config file at or above dir.
func Find(dir string) (string, bool, error) {
	path, err := fsutil.SearchParentsForPath(FileName, dir)
	if errors.Is(err, fsutil.ErrFileNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return path, true, nil
}

// Load reads the config at path. A relative working directory is resolved
// against the directory containing the file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.Path = path

	if cfg.WorkingDir != "" && !filepath.IsAbs(cfg.WorkingDir) {
		cfg.WorkingDir = filepath.Join(filepath.Dir(path), cfg.WorkingDir)
	}

	return &cfg, nil
}

// LoadFromDir loads the nearest config at or above dir, or returns an empty
// config if there is none.
func LoadFromDir(dir string) (*Config, error) {
	path, found, err := Find(dir)
	if err != nil {
		return nil, err
	}

	if !found {
		return &Config{}, nil
	}

	return Load(path)
}

// Write writes cfg to path.
func Write(path string, cfg Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, b, 0o644)
}

// RunnerOptions returns the runner options the config implies.
func (c *Config) RunnerOptions() []runner.Option {
	var opts []runner.Option

	if c.Bootstrapper != "" {
		opts = append(opts, runner.WithBootstrapper(c.Bootstrapper))
	}

	if c.WorkingDir != "" {
		opts = append(opts, runner.WithWorkingDir(c.WorkingDir))
	}

	if len(c.Environ) > 0 {
		env := os.Environ()
		for k, v := range c.Environ {
			env = append(env, k+"="+v)
		}

		opts = append(opts, runner.WithEnviron(env))
	}

	return opts
}
