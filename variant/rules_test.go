package variant_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelforge/modelforge"
	"github.com/modelforge/modelforge/variant"
)

func TestValidate(t *testing.T) {
	reg := variant.DefaultRegistry()
	rules := variant.DefaultRules(reg)

	t.Run("legal variants pass", func(t *testing.T) {
		tests := []variant.Config{
			{variant.ModelServer: "flask", variant.Framework: "sklearn", variant.ModelFormat: "joblib"},
			{variant.ModelServer: "fastapi", variant.Framework: "xgboost", variant.ModelFormat: "ubj"},
			{variant.ModelServer: "fastapi", variant.Framework: "tensorflow", variant.ModelFormat: "SavedModel"},
			{variant.ModelServer: "sglang", variant.Framework: "sglang", variant.Model: variant.DefaultModel},
		}
		for _, cfg := range tests {
			assert.NoError(t, rules.Validate(cfg), "config %v", cfg)
		}
	})

	t.Run("sglang server with xgboost framework", func(t *testing.T) {
		cfg := variant.Config{
			variant.ModelServer: "sglang",
			variant.Framework:   "xgboost",
			variant.ModelFormat: "json",
		}
		err := rules.Validate(cfg)
		require.Error(t, err)
		require.True(t, modelforge.IsCompatibilityError(err))

		var compatErr *modelforge.CompatibilityError
		require.ErrorAs(t, err, &compatErr)
		assert.Contains(t, compatErr.Rules(), "server-sglang-requires-framework-sglang")
	})

	t.Run("reports every violated rule at once", func(t *testing.T) {
		// An sglang framework behind flask with a format from another
		// framework's set trips three rules in one pass.
		cfg := variant.Config{
			variant.ModelServer: "flask",
			variant.Framework:   "sglang",
			variant.ModelFormat: "joblib",
		}
		err := rules.Validate(cfg)
		require.Error(t, err)

		var compatErr *modelforge.CompatibilityError
		require.ErrorAs(t, err, &compatErr)
		assert.Equal(t, []string{
			"framework-sglang-requires-server-sglang",
			"http-server-requires-handler-framework",
			"model-format-in-framework-set",
		}, compatErr.Rules())
	})

	t.Run("format outside framework set", func(t *testing.T) {
		cfg := variant.Config{
			variant.ModelServer: "flask",
			variant.Framework:   "sklearn",
			variant.ModelFormat: "ubj",
		}
		err := rules.Validate(cfg)
		require.Error(t, err)

		var compatErr *modelforge.CompatibilityError
		require.ErrorAs(t, err, &compatErr)
		assert.Equal(t, []string{"model-format-in-framework-set"}, compatErr.Rules())
	})
}

func TestValidateOrderIndependence(t *testing.T) {
	reg := variant.DefaultRegistry()
	cfg := variant.Config{
		variant.ModelServer: "flask",
		variant.Framework:   "sglang",
		variant.ModelFormat: "joblib",
	}

	want := func() []string {
		var compatErr *modelforge.CompatibilityError
		err := variant.DefaultRules(reg).Validate(cfg)
		require.ErrorAs(t, err, &compatErr)
		return compatErr.Rules()
	}()

	// Shuffled registration order must produce the identical violation set.
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		rules := variant.DefaultRules(reg).Rules()
		rng.Shuffle(len(rules), func(i, j int) { rules[i], rules[j] = rules[j], rules[i] })

		err := variant.NewRuleSet(rules...).Validate(cfg)
		var compatErr *modelforge.CompatibilityError
		require.ErrorAs(t, err, &compatErr)
		assert.Equal(t, want, compatErr.Rules())
	}
}
