package variant

import "maps"

// Axis names recognized by the default registry.
const (
	ModelServer = "modelServer"
	Framework   = "framework"
	ModelFormat = "modelFormat"
	Model       = "model"
)

// Legal values of the modelServer axis.
const (
	ServerFlask   = "flask"
	ServerFastAPI = "fastapi"
	ServerSGLang  = "sglang"
)

// Legal values of the framework axis.
const (
	FrameworkSKLearn    = "sklearn"
	FrameworkXGBoost    = "xgboost"
	FrameworkTensorFlow = "tensorflow"
	FrameworkSGLang     = "sglang"
)

// DefaultModel is the model identifier filled in when framework=sglang and
// the caller did not choose one.
const DefaultModel = "microsoft/DialoGPT-medium"

// Config is a complete, normalized assignment of axis names to chosen
// values. A Config is only ever produced by Registry.Normalize (complete
// and internally consistent) or built by hand in tests; it is owned by a
// single generation request and never mutated afterwards.
type Config map[string]string

// Value returns the chosen value for the axis, or the empty string if the
// axis is not assigned (e.g. inapplicable for this variant).
func (c Config) Value(axis string) string {
	return c[axis]
}

// Has reports whether the axis is assigned in this configuration.
func (c Config) Has(axis string) bool {
	_, ok := c[axis]
	return ok
}

// ModelServer returns the chosen serving framework.
func (c Config) ModelServer() string { return c[ModelServer] }

// Framework returns the chosen model framework.
func (c Config) Framework() string { return c[Framework] }

// ModelFormat returns the chosen serialization format, or the empty string
// for variants without one (framework=sglang).
func (c Config) ModelFormat() string { return c[ModelFormat] }

// Model returns the model identifier, or the empty string for variants
// without one.
func (c Config) Model() string { return c[Model] }

// Clone returns a copy of the configuration.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	maps.Copy(out, c)
	return out
}
