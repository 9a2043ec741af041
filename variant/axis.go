package variant

import (
	"slices"

	"github.com/modelforge/modelforge"
)

// An Axis is one configuration dimension. Axes are immutable after
// registration; a Registry only reads them.
type Axis struct {
	// Name of the axis, e.g. "modelServer".
	Name string

	// Parent is the axis whose chosen value selects this axis's legal
	// set. Empty for root axes.
	Parent string

	// Values holds the ordered legal values, keyed by the parent axis
	// value. Root axes use the empty key. A parent value missing from the
	// map declares the axis inapplicable for that parent value (e.g.
	// modelFormat under framework=sglang).
	Values map[string][]string

	// Defaults holds the value Normalize fills in when the caller omits
	// the axis, keyed like Values. A missing entry defaults to the first
	// legal value; free axes without an entry cannot be defaulted.
	Defaults map[string]string

	// Free marks an axis whose values are caller-supplied identifiers
	// (the model id) rather than members of a fixed legal set. For free
	// axes, the Values keys only declare applicability.
	Free bool
}

// Registry holds the axis definitions. It is loaded once at process start
// and read-only thereafter, so concurrent generation requests share it
// without synchronization.
type Registry struct {
	order []string
	axes  map[string]*Axis
}

// NewRegistry builds a registry from axis definitions. Axes are kept in
// declaration order; a parent axis must be declared before its children.
func NewRegistry(axes ...*Axis) (*Registry, error) {
	r := &Registry{axes: make(map[string]*Axis, len(axes))}
	for _, a := range axes {
		if _, ok := r.axes[a.Name]; ok {
			return nil, modelforge.NewInternalError("registry", a.Name, "duplicate axis")
		}
		if a.Parent != "" {
			if _, ok := r.axes[a.Parent]; !ok {
				return nil, modelforge.NewInternalError("registry", a.Name, "parent axis "+a.Parent+" not declared before child")
			}
		}
		r.axes[a.Name] = a
		r.order = append(r.order, a.Name)
	}
	return r, nil
}

// DefaultRegistry returns the built-in axes of the generator:
//
//	modelServer  flask (default) | fastapi | sglang
//	framework    sklearn (default) | xgboost | tensorflow | sglang
//	modelFormat  depends on framework; none for sglang
//	model        free identifier, applicable only for framework=sglang
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		&Axis{
			Name:   ModelServer,
			Values: map[string][]string{"": {ServerFlask, ServerFastAPI, ServerSGLang}},
		},
		&Axis{
			Name:   Framework,
			Values: map[string][]string{"": {FrameworkSKLearn, FrameworkXGBoost, FrameworkTensorFlow, FrameworkSGLang}},
		},
		&Axis{
			Name:   ModelFormat,
			Parent: Framework,
			Values: map[string][]string{
				FrameworkSKLearn:    {"joblib", "pkl"},
				FrameworkXGBoost:    {"json", "model", "ubj"},
				FrameworkTensorFlow: {"keras", "h5", "SavedModel"},
			},
		},
		&Axis{
			Name:     Model,
			Parent:   Framework,
			Free:     true,
			Values:   map[string][]string{FrameworkSGLang: nil},
			Defaults: map[string]string{FrameworkSGLang: DefaultModel},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Axes returns the registered axis names in declaration order.
func (r *Registry) Axes() []string {
	return slices.Clone(r.order)
}

// Axis returns the definition of the named axis, or nil if unregistered.
func (r *Registry) Axis(name string) *Axis {
	return r.axes[name]
}

// LegalValues returns the ordered set of permitted values for the axis
// given the already-chosen values of its ancestor axes in ctx. It returns
// an empty set for axes inapplicable under ctx, and a ConfigurationError
// for unregistered axes or an unresolved ancestor.
func (r *Registry) LegalValues(axis string, ctx Config) ([]string, error) {
	a, ok := r.axes[axis]
	if !ok {
		return nil, modelforge.NewConfigurationError(axis, nil, "unknown axis")
	}
	key := ""
	if a.Parent != "" {
		pv, ok := ctx[a.Parent]
		if !ok {
			return nil, modelforge.NewConfigurationError(axis, nil, "legal values depend on unresolved ancestor axis "+a.Parent)
		}
		key = pv
	}
	vals, ok := a.Values[key]
	if !ok {
		return nil, nil // inapplicable under ctx
	}
	return slices.Clone(vals), nil
}

// Normalize resolves a raw configuration into a complete Config. Missing
// axes receive their documented default; axes inapplicable for the chosen
// ancestor values are dropped (a supplied value for them is ignored).
// Unknown axis names, values outside the legal set, and axes that cannot
// be defaulted are rejected with a ConfigurationError.
func (r *Registry) Normalize(raw map[string]string) (Config, error) {
	for name, value := range raw {
		if _, ok := r.axes[name]; !ok {
			return nil, modelforge.NewConfigurationError(name, value, "unknown axis")
		}
	}
	cfg := make(Config, len(r.order))
	for _, name := range r.order {
		a := r.axes[name]
		key := ""
		if a.Parent != "" {
			pv, ok := cfg[a.Parent]
			if !ok {
				// The parent itself resolved to inapplicable; so is
				// every axis beneath it.
				continue
			}
			key = pv
		}
		legal, applicable := a.Values[key]
		if !applicable {
			continue
		}
		value, chosen := raw[name]
		if !chosen || value == "" {
			value = a.Defaults[key]
			if value == "" {
				if a.Free {
					return nil, modelforge.NewConfigurationError(name, nil, "axis has no default and was not provided")
				}
				if len(legal) == 0 {
					return nil, modelforge.NewConfigurationError(name, nil, "dependent axis cannot be defaulted under "+a.Parent+"="+key)
				}
				value = legal[0]
			}
		}
		if !a.Free && !slices.Contains(legal, value) {
			return nil, modelforge.NewConfigurationError(name, value, "value outside legal set for "+describeContext(a, key))
		}
		cfg[name] = value
	}
	return cfg, nil
}

func describeContext(a *Axis, key string) string {
	if a.Parent == "" {
		return "axis " + a.Name
	}
	return a.Parent + "=" + key
}
