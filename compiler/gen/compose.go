package gen

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/modelforge/modelforge"
	"github.com/modelforge/modelforge/variant"
)

// modelPlaceholder marks where a fragment receives the configuration's
// model identifier.
const modelPlaceholder = "{{model}}"

// A Result is one rendered artifact.
type Result struct {
	Spec    *ArtifactSpec
	Content []byte
}

// Composer renders artifacts from the fragment store. Rendering is pure:
// the same configuration always produces byte-identical content.
type Composer struct {
	store     *Store
	artifacts []*ArtifactSpec
	workers   int
}

// NewComposer returns a composer over the given store and artifact set.
// workers bounds the artifacts rendered concurrently; values below one
// fall back to one artifact at a time.
func NewComposer(store *Store, artifacts []*ArtifactSpec, workers int) *Composer {
	if workers < 1 {
		workers = 1
	}
	return &Composer{store: store, artifacts: artifacts, workers: workers}
}

// Render composes a single artifact for the configuration by concatenating
// its slot fragments in order and substituting the model identifier.
func (c *Composer) Render(spec *ArtifactSpec, cfg variant.Config) (*Result, error) {
	var b strings.Builder
	for _, slot := range spec.Slots {
		value := AlwaysValue
		if slot.Axis != "" {
			if !cfg.Has(slot.Axis) {
				return nil, modelforge.NewInternalError("composer", spec.Key+"/"+slot.Name, "slot axis "+slot.Axis+" unassigned; artifact should have been skipped")
			}
			value = cfg.Value(slot.Axis)
		}
		frag, err := c.store.Fragment(spec.Key+"/"+slot.Name, value)
		if err != nil {
			return nil, err
		}
		b.WriteString(frag)
	}
	content := b.String()
	if strings.Contains(content, modelPlaceholder) {
		if !cfg.Has(variant.Model) {
			return nil, modelforge.NewInternalError("composer", spec.Key, "fragment expects a model identifier the configuration does not carry")
		}
		content = strings.ReplaceAll(content, modelPlaceholder, cfg.Model())
	}
	return &Result{Spec: spec, Content: []byte(content)}, nil
}

// RenderAll composes every applicable artifact for the configuration.
// Artifacts render in parallel but the returned slice always follows the
// artifact declaration order, and RenderAll only returns once every
// render finished, so callers can hand the set to the checker directly.
func (c *Composer) RenderAll(ctx context.Context, cfg variant.Config) ([]*Result, error) {
	results := make([]*Result, len(c.artifacts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, spec := range c.artifacts {
		if spec.Skipped(cfg) {
			continue
		}
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := c.Render(spec, cfg)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}
