package gen

import (
	"io/fs"

	"github.com/modelforge/modelforge/variant"
)

// A Slot is one ordered region of an artifact. A slot with an Axis selects
// its fragment by the configuration's value for that axis; a slot without
// one renders the same fragment in every variant.
type Slot struct {
	Name string
	Axis string
}

// Always returns a slot that is identical across variants.
func Always(name string) Slot { return Slot{Name: name} }

// On returns a slot whose fragment is selected by the given axis.
func On(name, axis string) Slot { return Slot{Name: name, Axis: axis} }

// An ArtifactSpec describes one generated file: where it is emitted, the
// slots composing it, and the variants it is absent from.
type ArtifactSpec struct {
	// Name identifies the artifact in findings and logs.
	Name string

	// Key prefixes the fragment groups of the artifact's slots.
	Key string

	// Path is the emission path relative to the target root, in slash form.
	Path string

	// Mode is the permission the artifact is emitted with.
	Mode fs.FileMode

	// Skip reports whether the artifact is absent from the variant.
	// A nil Skip means the artifact is rendered for every variant.
	Skip func(variant.Config) bool

	// Slots are the artifact's regions in composition order.
	Slots []Slot
}

// Skipped reports whether the artifact is absent from the given variant.
func (a *ArtifactSpec) Skipped(cfg variant.Config) bool {
	return a.Skip != nil && a.Skip(cfg)
}

// DefaultArtifacts returns the built-in artifact set of the generator.
// The serve and start scripts are produced for every variant; the training
// script and the inference check only apply to frameworks with a local
// training flow, so sglang variants skip them.
func DefaultArtifacts() []*ArtifactSpec {
	noTraining := func(cfg variant.Config) bool {
		return cfg.Framework() == variant.FrameworkSGLang
	}
	return []*ArtifactSpec{
		{
			Name: "serve script",
			Key:  "serve",
			Path: "code/serve.py",
			Mode: 0o755,
			Slots: []Slot{
				Always("header"),
				On("imports", variant.ModelServer),
				Always("setup"),
				On("app", variant.ModelServer),
				On("main", variant.ModelServer),
			},
		},
		{
			Name: "start script",
			Key:  "start_server",
			Path: "code/start_server.py",
			Mode: 0o755,
			Slots: []Slot{
				Always("header"),
				On("imports", variant.ModelServer),
				Always("setup"),
				On("launcher", variant.ModelServer),
			},
		},
		{
			Name: "training script",
			Key:  "train_abalone",
			Path: "sample_model/train_abalone.py",
			Mode: 0o644,
			Skip: noTraining,
			Slots: []Slot{
				Always("header"),
				On("imports", variant.Framework),
				On("format_imports", variant.ModelFormat),
				Always("data"),
				On("train", variant.Framework),
				On("save", variant.ModelFormat),
				Always("footer"),
			},
		},
		{
			Name: "test harness",
			Key:  "test_model_handler",
			Path: "test/test_model_handler.py",
			Mode: 0o755,
			Slots: []Slot{
				On("body", variant.Framework),
			},
		},
		{
			Name: "inference check",
			Key:  "test_inference",
			Path: "sample_model/test_inference.py",
			Mode: 0o644,
			Skip: noTraining,
			Slots: []Slot{
				Always("header"),
				On("imports", variant.ModelFormat),
				On("load", variant.ModelFormat),
				Always("input"),
				On("predict", variant.ModelFormat),
			},
		},
	}
}
