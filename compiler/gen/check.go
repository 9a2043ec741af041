package gen

import (
	"strings"

	"github.com/modelforge/modelforge"
	"github.com/modelforge/modelforge/variant"
)

// PortEnv is the environment variable every generated server resolves its
// listen port from, defaulting to 8080 when unset.
const PortEnv = "SAGEMAKER_BIND_TO_PORT"

// formatMarkers maps each modelFormat value to the serialized model path
// literal the training script must write and the inference check must
// read. Sharing one literal per format is what keeps the two scripts
// symmetric.
var formatMarkers = map[string]string{
	"joblib":     "'./abalone_model.joblib'",
	"pkl":        "'./abalone_model.pkl'",
	"json":       "'./abalone_model.json'",
	"model":      "'./abalone_model.model'",
	"ubj":        "'./abalone_model.ubj'",
	"h5":         "'./abalone_model.h5'",
	"keras":      "'./abalone_model.keras'",
	"SavedModel": "'./abalone_model'",
}

// serverMarkers maps each modelServer value to the constructs the serve
// script must define (and, for flask, must not: its routes are
// synchronous), the process the start script must launch, and where that
// launcher takes its port from; gunicorn setups resolve it in their
// config file instead of inline.
var serverMarkers = map[string]struct {
	app          []string
	forbidden    string
	launcher     string
	launcherPort string
}{
	variant.ServerFlask: {
		app:          []string{"Flask(__name__)", "jsonify("},
		forbidden:    "async def",
		launcher:     "gunicorn",
		launcherPort: "gunicorn_config.py",
	},
	variant.ServerFastAPI: {
		app:          []string{"FastAPI()", "async def", "HTTPException("},
		launcher:     "uvicorn",
		launcherPort: PortEnv,
	},
	variant.ServerSGLang: {
		app:          []string{"sglang_runtime = Runtime(", "async def", "HTTPException("},
		launcher:     "uvicorn",
		launcherPort: PortEnv,
	},
}

// Checker verifies that a rendered artifact set agrees with itself and
// with the configuration it was rendered for. Any finding fails the whole
// generation; partially consistent output is never emitted.
type Checker struct{}

// NewChecker returns a checker with the built-in invariants.
func NewChecker() *Checker {
	return &Checker{}
}

// Check runs every invariant over the rendered set and returns a
// ConsistencyError carrying all findings, or nil when the set is coherent.
func (c *Checker) Check(cfg variant.Config, results []*Result) error {
	byName := make(map[string]*Result, len(results))
	for _, r := range results {
		byName[r.Spec.Name] = r
	}
	var findings []modelforge.Finding
	findings = append(findings, c.formatSymmetry(cfg, byName)...)
	findings = append(findings, c.serverContract(cfg, byName)...)
	findings = append(findings, c.portEnvironment(cfg, byName)...)
	return modelforge.NewConsistencyError(findings...)
}

// formatSymmetry requires the training script and the inference check to
// reference the identical serialized model path for the chosen format.
func (c *Checker) formatSymmetry(cfg variant.Config, byName map[string]*Result) []modelforge.Finding {
	if !cfg.Has(variant.ModelFormat) {
		return nil
	}
	marker, ok := formatMarkers[cfg.ModelFormat()]
	if !ok {
		return []modelforge.Finding{{
			Invariant: "format-symmetry",
			Artifacts: []string{"training script", "inference check"},
			Axis:      variant.ModelFormat,
			Detail:    "no serialized model path known for format " + cfg.ModelFormat(),
		}}
	}
	var findings []modelforge.Finding
	for _, name := range []string{"training script", "inference check"} {
		if r, ok := byName[name]; ok && !strings.Contains(string(r.Content), marker) {
			findings = append(findings, modelforge.Finding{
				Invariant: "format-symmetry",
				Artifacts: []string{name},
				Axis:      variant.ModelFormat,
				Detail:    "does not reference serialized model path " + marker,
			})
		}
	}
	return findings
}

// serverContract requires the serve script to define the application the
// chosen server expects and the start script to launch the matching
// process.
func (c *Checker) serverContract(cfg variant.Config, byName map[string]*Result) []modelforge.Finding {
	marker, ok := serverMarkers[cfg.ModelServer()]
	if !ok {
		return []modelforge.Finding{{
			Invariant: "server-contract",
			Artifacts: []string{"serve script", "start script"},
			Axis:      variant.ModelServer,
			Detail:    "no contract known for server " + cfg.ModelServer(),
		}}
	}
	var findings []modelforge.Finding
	if r, ok := byName["serve script"]; ok {
		content := string(r.Content)
		var missing []string
		for _, m := range marker.app {
			if !strings.Contains(content, m) {
				missing = append(missing, m)
			}
		}
		if len(missing) > 0 {
			findings = append(findings, modelforge.Finding{
				Invariant: "server-contract",
				Artifacts: []string{"serve script"},
				Axis:      variant.ModelServer,
				Detail:    "missing " + cfg.ModelServer() + " constructs: " + strings.Join(missing, ", "),
			})
		}
		if marker.forbidden != "" && strings.Contains(content, marker.forbidden) {
			findings = append(findings, modelforge.Finding{
				Invariant: "server-contract",
				Artifacts: []string{"serve script"},
				Axis:      variant.ModelServer,
				Detail:    "contains " + marker.forbidden + ", which the " + cfg.ModelServer() + " contract forbids",
			})
		}
	}
	if r, ok := byName["start script"]; ok && !strings.Contains(string(r.Content), marker.launcher) {
		findings = append(findings, modelforge.Finding{
			Invariant: "server-contract",
			Artifacts: []string{"start script"},
			Axis:      variant.ModelServer,
			Detail:    "does not launch " + marker.launcher,
		})
	}
	return findings
}

// portEnvironment requires every port-binding artifact to resolve its
// port from PortEnv rather than a hard-coded literal. Gunicorn start
// scripts satisfy it by delegating to the config file that reads PortEnv.
func (c *Checker) portEnvironment(cfg variant.Config, byName map[string]*Result) []modelforge.Finding {
	var findings []modelforge.Finding
	if r, ok := byName["serve script"]; ok && !strings.Contains(string(r.Content), PortEnv) {
		findings = append(findings, modelforge.Finding{
			Invariant: "port-environment",
			Artifacts: []string{"serve script"},
			Axis:      variant.ModelServer,
			Detail:    "does not read " + PortEnv,
		})
	}
	marker, ok := serverMarkers[cfg.ModelServer()]
	if !ok {
		return findings
	}
	if r, ok := byName["start script"]; ok && !strings.Contains(string(r.Content), marker.launcherPort) {
		findings = append(findings, modelforge.Finding{
			Invariant: "port-environment",
			Artifacts: []string{"start script"},
			Axis:      variant.ModelServer,
			Detail:    "does not resolve its port via " + marker.launcherPort,
		})
	}
	return findings
}
