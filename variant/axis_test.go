package variant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelforge/modelforge"
	"github.com/modelforge/modelforge/variant"
)

func TestLegalValues(t *testing.T) {
	reg := variant.DefaultRegistry()

	t.Run("root axis", func(t *testing.T) {
		vals, err := reg.LegalValues(variant.ModelServer, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"flask", "fastapi", "sglang"}, vals)
	})

	t.Run("dependent axis follows parent value", func(t *testing.T) {
		tests := []struct {
			framework string
			want      []string
		}{
			{"sklearn", []string{"joblib", "pkl"}},
			{"xgboost", []string{"json", "model", "ubj"}},
			{"tensorflow", []string{"keras", "h5", "SavedModel"}},
		}
		for _, tt := range tests {
			t.Run(tt.framework, func(t *testing.T) {
				ctx := variant.Config{variant.Framework: tt.framework}
				vals, err := reg.LegalValues(variant.ModelFormat, ctx)
				require.NoError(t, err)
				assert.Equal(t, tt.want, vals)
			})
		}
	})

	t.Run("inapplicable axis yields empty set", func(t *testing.T) {
		ctx := variant.Config{variant.Framework: "sglang"}
		vals, err := reg.LegalValues(variant.ModelFormat, ctx)
		require.NoError(t, err)
		assert.Empty(t, vals)
	})

	t.Run("unknown axis", func(t *testing.T) {
		_, err := reg.LegalValues("runtime", nil)
		require.Error(t, err)
		assert.True(t, modelforge.IsConfigurationError(err))
	})

	t.Run("unresolved ancestor", func(t *testing.T) {
		_, err := reg.LegalValues(variant.ModelFormat, variant.Config{})
		require.Error(t, err)
		assert.True(t, modelforge.IsConfigurationError(err))
	})
}

func TestNormalize(t *testing.T) {
	reg := variant.DefaultRegistry()

	t.Run("fills documented defaults", func(t *testing.T) {
		cfg, err := reg.Normalize(nil)
		require.NoError(t, err)
		assert.Equal(t, "flask", cfg.ModelServer())
		assert.Equal(t, "sklearn", cfg.Framework())
		assert.Equal(t, "joblib", cfg.ModelFormat())
		assert.False(t, cfg.Has(variant.Model))
	})

	t.Run("defaults format per framework", func(t *testing.T) {
		tests := []struct {
			framework string
			want      string
		}{
			{"sklearn", "joblib"},
			{"xgboost", "json"},
			{"tensorflow", "keras"},
		}
		for _, tt := range tests {
			t.Run(tt.framework, func(t *testing.T) {
				cfg, err := reg.Normalize(map[string]string{variant.Framework: tt.framework})
				require.NoError(t, err)
				assert.Equal(t, tt.want, cfg.ModelFormat())
			})
		}
	})

	t.Run("sglang drops format and defaults model", func(t *testing.T) {
		cfg, err := reg.Normalize(map[string]string{
			variant.ModelServer: "sglang",
			variant.Framework:   "sglang",
		})
		require.NoError(t, err)
		assert.False(t, cfg.Has(variant.ModelFormat))
		assert.Equal(t, variant.DefaultModel, cfg.Model())
	})

	t.Run("explicit model id is kept", func(t *testing.T) {
		cfg, err := reg.Normalize(map[string]string{
			variant.ModelServer: "sglang",
			variant.Framework:   "sglang",
			variant.Model:       "microsoft/DialoGPT-small",
		})
		require.NoError(t, err)
		assert.Equal(t, "microsoft/DialoGPT-small", cfg.Model())
	})

	t.Run("ignores inapplicable axes", func(t *testing.T) {
		cfg, err := reg.Normalize(map[string]string{
			variant.Framework: "sklearn",
			variant.Model:     "microsoft/DialoGPT-small",
		})
		require.NoError(t, err)
		assert.False(t, cfg.Has(variant.Model))
	})

	t.Run("rejects unknown axis", func(t *testing.T) {
		_, err := reg.Normalize(map[string]string{"runtime": "cuda"})
		require.Error(t, err)
		assert.True(t, modelforge.IsConfigurationError(err))
	})

	t.Run("rejects value outside legal set", func(t *testing.T) {
		_, err := reg.Normalize(map[string]string{
			variant.Framework:   "sklearn",
			variant.ModelFormat: "ubj",
		})
		require.Error(t, err)
		assert.True(t, modelforge.IsConfigurationError(err))
	})

	t.Run("rejects unknown server", func(t *testing.T) {
		_, err := reg.Normalize(map[string]string{variant.ModelServer: "tomcat"})
		require.Error(t, err)
		assert.True(t, modelforge.IsConfigurationError(err))
	})
}

func TestNormalizeDependentDefaulting(t *testing.T) {
	// A dependent axis with an empty legal set and no default cannot be
	// resolved once its parent is chosen.
	reg, err := variant.NewRegistry(
		&variant.Axis{
			Name:   "engine",
			Values: map[string][]string{"": {"a", "b"}},
		},
		&variant.Axis{
			Name:   "tuning",
			Parent: "engine",
			Values: map[string][]string{"a": {"x"}, "b": {}},
		},
	)
	require.NoError(t, err)

	t.Run("defaultable", func(t *testing.T) {
		cfg, err := reg.Normalize(map[string]string{"engine": "a"})
		require.NoError(t, err)
		assert.Equal(t, "x", cfg.Value("tuning"))
	})

	t.Run("cannot be defaulted", func(t *testing.T) {
		_, err := reg.Normalize(map[string]string{"engine": "b"})
		require.Error(t, err)
		assert.True(t, modelforge.IsConfigurationError(err))
	})
}

func TestNewRegistry(t *testing.T) {
	t.Run("duplicate axis", func(t *testing.T) {
		_, err := variant.NewRegistry(
			&variant.Axis{Name: "a", Values: map[string][]string{"": {"x"}}},
			&variant.Axis{Name: "a", Values: map[string][]string{"": {"y"}}},
		)
		require.Error(t, err)
		assert.True(t, modelforge.IsInternalError(err))
	})

	t.Run("parent declared after child", func(t *testing.T) {
		_, err := variant.NewRegistry(
			&variant.Axis{Name: "child", Parent: "parent", Values: map[string][]string{"x": {"y"}}},
			&variant.Axis{Name: "parent", Values: map[string][]string{"": {"x"}}},
		)
		require.Error(t, err)
		assert.True(t, modelforge.IsInternalError(err))
	})
}
