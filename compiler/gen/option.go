package gen

import (
	"errors"
	"runtime"

	"github.com/modelforge/modelforge/variant"
)

// Config holds the collaborators and knobs of a generation run. Zero
// fields are filled with the built-in defaults by NewConfig.
type Config struct {
	// Registry resolves and defaults axis values.
	Registry *variant.Registry

	// Rules prunes the axis cross-product to the supported variants.
	Rules *variant.RuleSet

	// Store supplies the fragments artifacts are composed from.
	Store *Store

	// Artifacts is the set of files a variant generates.
	Artifacts []*ArtifactSpec

	// Target is the directory artifacts are emitted under.
	Target string

	// Overwrite allows emission to replace existing files.
	Overwrite bool

	// Workers bounds the artifacts rendered concurrently.
	Workers int
}

// Option configures a generation run.
type Option func(*Config) error

// WithTarget sets the directory artifacts are emitted under.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		c.Target = dir
		return nil
	}
}

// WithOverwrite allows emission to replace existing files.
func WithOverwrite(overwrite bool) Option {
	return func(c *Config) error {
		c.Overwrite = overwrite
		return nil
	}
}

// WithRegistry replaces the built-in axis registry.
func WithRegistry(reg *variant.Registry) Option {
	return func(c *Config) error {
		c.Registry = reg
		return nil
	}
}

// WithRules replaces the built-in compatibility rules.
func WithRules(rules *variant.RuleSet) Option {
	return func(c *Config) error {
		c.Rules = rules
		return nil
	}
}

// WithStore replaces the embedded fragment store.
func WithStore(store *Store) Option {
	return func(c *Config) error {
		c.Store = store
		return nil
	}
}

// WithArtifacts replaces the built-in artifact set.
func WithArtifacts(artifacts ...*ArtifactSpec) Option {
	return func(c *Config) error {
		c.Artifacts = artifacts
		return nil
	}
}

// WithWorkers bounds the artifacts rendered concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return errors.New("gen: workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// Apply applies options to the config.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig applies the options over the defaults: the built-in registry,
// rules, fragment store and artifact set, the current directory as target,
// and one render worker per CPU.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Target: ".", Workers: runtime.NumCPU()}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	if c.Registry == nil {
		c.Registry = variant.DefaultRegistry()
	}
	if c.Rules == nil {
		c.Rules = variant.DefaultRules(c.Registry)
	}
	if c.Store == nil {
		store, err := NewStore()
		if err != nil {
			return nil, err
		}
		c.Store = store
	}
	if c.Artifacts == nil {
		c.Artifacts = DefaultArtifacts()
	}
	return c, nil
}
