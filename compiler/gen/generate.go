package gen

import (
	"context"

	"github.com/google/uuid"

	"github.com/modelforge/modelforge/variant"
)

// A Generation records one completed run: the request identifier, the
// fully resolved configuration, and the emitted paths relative to the
// target root.
type Generation struct {
	ID     uuid.UUID
	Config variant.Config
	Paths  []string
}

// Validate resolves a raw configuration against the registry and the
// compatibility rules without rendering anything. It returns the
// normalized configuration, or the ConfigurationError/CompatibilityError
// describing why no artifacts can be generated from it.
func Validate(raw map[string]string, opts ...Option) (variant.Config, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return c.validate(raw)
}

// Preview validates a raw configuration and renders its artifact set
// without touching the filesystem. The returned results passed the
// consistency check and are exactly what Generate would emit.
func Preview(ctx context.Context, raw map[string]string, opts ...Option) (variant.Config, []*Result, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, nil, err
	}
	return c.render(ctx, raw)
}

// Generate runs the full pipeline for a raw configuration: normalize,
// validate, render, check, emit. Any stage failing leaves the target
// directory untouched.
func Generate(ctx context.Context, raw map[string]string, opts ...Option) (*Generation, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	cfg, results, err := c.render(ctx, raw)
	if err != nil {
		return nil, err
	}
	paths, err := NewEmitter(c.Target, c.Overwrite).Emit(results)
	if err != nil {
		return nil, err
	}
	return &Generation{ID: uuid.New(), Config: cfg, Paths: paths}, nil
}

func (c *Config) validate(raw map[string]string) (variant.Config, error) {
	cfg, err := c.Registry.Normalize(raw)
	if err != nil {
		return nil, err
	}
	if err := c.Rules.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) render(ctx context.Context, raw map[string]string) (variant.Config, []*Result, error) {
	cfg, err := c.validate(raw)
	if err != nil {
		return nil, nil, err
	}
	results, err := NewComposer(c.Store, c.Artifacts, c.Workers).RenderAll(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := NewChecker().Check(cfg, results); err != nil {
		return nil, nil, err
	}
	return cfg, results, nil
}
