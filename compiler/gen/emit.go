package gen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelforge/modelforge"
)

// Emitter writes a rendered artifact set below a target root. Emission is
// all-or-nothing: conflicts are detected before the first byte is written,
// and a failed write rolls back everything written so far, so a target
// directory never holds a partial set.
type Emitter struct {
	root      string
	overwrite bool
}

// NewEmitter returns an emitter targeting root. With overwrite unset,
// existing files fail the emission instead of being replaced.
func NewEmitter(root string, overwrite bool) *Emitter {
	return &Emitter{root: root, overwrite: overwrite}
}

// Emit writes every result under the target root and returns the emitted
// paths relative to it, in artifact order. When overwrite is off and any
// target path already exists, nothing is written and the returned
// ConflictError names every colliding path, not just the first.
func (e *Emitter) Emit(results []*Result) ([]string, error) {
	var conflicts []string
	if !e.overwrite {
		for _, r := range results {
			if _, err := os.Stat(e.target(r)); err == nil {
				conflicts = append(conflicts, r.Spec.Path)
			}
		}
	}
	if err := modelforge.NewConflictError(conflicts...); err != nil {
		return nil, err
	}

	var written []string
	rollback := func() {
		for _, p := range written {
			os.Remove(filepath.Join(e.root, filepath.FromSlash(p)))
		}
	}
	for _, r := range results {
		target := e.target(r)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			rollback()
			return nil, fmt.Errorf("emit %s: %w", r.Spec.Path, err)
		}
		if err := os.WriteFile(target, r.Content, r.Spec.Mode); err != nil {
			rollback()
			return nil, fmt.Errorf("emit %s: %w", r.Spec.Path, err)
		}
		written = append(written, r.Spec.Path)
	}
	return written, nil
}

func (e *Emitter) target(r *Result) string {
	return filepath.Join(e.root, filepath.FromSlash(r.Spec.Path))
}
