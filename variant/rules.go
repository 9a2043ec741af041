package variant

import (
	"slices"
	"strings"

	"github.com/modelforge/modelforge"
)

// A Rule is one declarative compatibility constraint over a full
// configuration. Satisfied must be a pure predicate: rules have no
// ordering dependency and evaluation order never affects the result set.
type Rule struct {
	// ID identifies the rule in violation reports.
	ID string

	// Message explains the constraint to the user.
	Message string

	// Satisfied reports whether the configuration meets the constraint.
	Satisfied func(Config) bool
}

// RuleSet is the conjunction of all registered rules. Like the Registry it
// is read-only after construction.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a rule set from the given rules.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: slices.Clone(rules)}
}

// Rules returns the registered rules.
func (s *RuleSet) Rules() []Rule {
	return slices.Clone(s.rules)
}

// Validate evaluates every rule against cfg. It returns nil on success, or
// a CompatibilityError carrying ALL violated rules sorted by rule ID, so
// the result is independent of registration order and the user sees every
// remaining problem at once.
func (s *RuleSet) Validate(cfg Config) error {
	var violations []modelforge.Violation
	for _, rule := range s.rules {
		if !rule.Satisfied(cfg) {
			violations = append(violations, modelforge.Violation{Rule: rule.ID, Message: rule.Message})
		}
	}
	slices.SortFunc(violations, func(a, b modelforge.Violation) int {
		return strings.Compare(a.Rule, b.Rule)
	})
	return modelforge.NewCompatibilityError(violations...)
}

// DefaultRules returns the built-in compatibility constraints pruning the
// axis cross-product down to the supported variant space. The rules need
// the registry to resolve framework-specific legal sets.
func DefaultRules(reg *Registry) *RuleSet {
	return NewRuleSet(
		Rule{
			ID:      "server-sglang-requires-framework-sglang",
			Message: "modelServer=sglang serves an sglang runtime and requires framework=sglang",
			Satisfied: func(cfg Config) bool {
				return cfg.ModelServer() != ServerSGLang || cfg.Framework() == FrameworkSGLang
			},
		},
		Rule{
			ID:      "framework-sglang-requires-server-sglang",
			Message: "framework=sglang models can only be served by modelServer=sglang",
			Satisfied: func(cfg Config) bool {
				return cfg.Framework() != FrameworkSGLang || cfg.ModelServer() == ServerSGLang
			},
		},
		Rule{
			ID:      "model-format-in-framework-set",
			Message: "modelFormat must belong to the chosen framework's legal set",
			Satisfied: func(cfg Config) bool {
				legal, err := reg.LegalValues(ModelFormat, cfg)
				if err != nil {
					return false
				}
				if len(legal) == 0 {
					return !cfg.Has(ModelFormat)
				}
				return slices.Contains(legal, cfg.ModelFormat())
			},
		},
		Rule{
			ID:      "http-server-requires-handler-framework",
			Message: "modelServer=flask or fastapi requires a handler framework (sklearn, xgboost, or tensorflow)",
			Satisfied: func(cfg Config) bool {
				server := cfg.ModelServer()
				if server != ServerFlask && server != ServerFastAPI {
					return true
				}
				switch cfg.Framework() {
				case FrameworkSKLearn, FrameworkXGBoost, FrameworkTensorFlow:
					return true
				}
				return false
			},
		},
	)
}
