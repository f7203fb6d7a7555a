package gen

import (
	"path"
	"runtime"
)

// Config carries the settings for one Generator.
type Config struct {
	// Patterns are the package patterns to scan for marked fields.
	Patterns []string
	// Dir is the working directory scanning is rooted at. Empty means the
	// process working directory.
	Dir string
	// Target is the directory generated files are written to.
	Target string
	// Package is the import path of the generated package. The package
	// name is its base element.
	Package string
	// Header is the comment placed at the top of every generated file.
	Header string
	// Workers bounds parallel group processing.
	Workers int
	// Rounds bounds re-processing of deferred symbols.
	Rounds int
	// Sink receives diagnostics. Defaults to a fresh Collector.
	Sink Sink
}

// Option configures code generation.
type Option func(*Config) error

// DefaultHeader is the header comment generated files carry unless
// overridden with WithHeader.
const DefaultHeader = "Code generated by oneshot. DO NOT EDIT."

// NewConfig builds a Config from options and validates it.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
		Rounds:  3,
		Sink:    &Collector{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if len(c.Patterns) == 0 {
		return nil, NewConfigError("Patterns", nil, "at least one package pattern is required")
	}
	if c.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory")
	}
	if c.Package == "" {
		return nil, NewConfigError("Package", nil, "missing generated package import path")
	}
	return c, nil
}

// PkgName returns the generated package's name.
func (c *Config) PkgName() string {
	return path.Base(c.Package)
}

// WithPatterns sets the package patterns to scan.
func WithPatterns(patterns ...string) Option {
	return func(c *Config) error {
		c.Patterns = append(c.Patterns, patterns...)
		return nil
	}
}

// WithDir sets the directory scanning is rooted at.
func WithDir(dir string) Option {
	return func(c *Config) error {
		c.Dir = dir
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the generated package import path.
// For example: "github.com/org/project/internal/oneshotgen".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n > 0 {
			c.Workers = n
		}
		return nil
	}
}

// WithRounds bounds the number of scan rounds spent resolving deferred
// symbols.
func WithRounds(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Rounds", n, "round count must be at least 1")
		}
		c.Rounds = n
		return nil
	}
}

// WithSink sets the diagnostics sink.
func WithSink(s Sink) Option {
	return func(c *Config) error {
		if s == nil {
			return NewConfigError("Sink", nil, "sink cannot be nil")
		}
		c.Sink = s
		return nil
	}
}
