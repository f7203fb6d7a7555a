package gen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the default name of the project configuration file the
// CLI looks for in the working directory.
const ProjectFile = "oneshot.yaml"

// Project is the on-disk project configuration. CLI flags override any
// value set here.
type Project struct {
	// Packages are the package patterns to scan.
	Packages []string `yaml:"packages,omitempty"`
	// Target is the output directory for generated files.
	Target string `yaml:"target,omitempty"`
	// Package is the generated package import path.
	Package string `yaml:"package,omitempty"`
	// Header overrides the generated-file header comment.
	Header string `yaml:"header,omitempty"`
	// Workers bounds parallel group processing.
	Workers int `yaml:"workers,omitempty"`
	// Rounds bounds deferred-symbol retries.
	Rounds int `yaml:"rounds,omitempty"`
}

// LoadProject reads and parses a project file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project config %s: %w", path, err)
	}
	p := &Project{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", path, err)
	}
	return p, nil
}

// Options converts the project settings to generator options, skipping
// unset values so later options and defaults still apply.
func (p *Project) Options() []Option {
	var opts []Option
	if len(p.Packages) > 0 {
		opts = append(opts, WithPatterns(p.Packages...))
	}
	if p.Target != "" {
		opts = append(opts, WithTarget(p.Target))
	}
	if p.Package != "" {
		opts = append(opts, WithPackage(p.Package))
	}
	if p.Header != "" {
		opts = append(opts, WithHeader(p.Header))
	}
	if p.Workers > 0 {
		opts = append(opts, WithWorkers(p.Workers))
	}
	if p.Rounds > 0 {
		opts = append(opts, WithRounds(p.Rounds))
	}
	return opts
}
