package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelforge/modelforge"
)

func TestLoadAxes(t *testing.T) {
	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "forge.yaml")
		require.NoError(t, os.WriteFile(path, []byte("modelServer: fastapi\nframework: xgboost\n"), 0o644))

		raw, err := loadAxes(path, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"modelServer": "fastapi", "framework": "xgboost"}, raw)
	})

	t.Run("set wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "forge.yaml")
		require.NoError(t, os.WriteFile(path, []byte("framework: xgboost\n"), 0o644))

		raw, err := loadAxes(path, map[string]string{"framework": "sklearn"})
		require.NoError(t, err)
		assert.Equal(t, "sklearn", raw["framework"])
	})

	t.Run("no file", func(t *testing.T) {
		raw, err := loadAxes("", map[string]string{"framework": "sklearn"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"framework": "sklearn"}, raw)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "forge.yaml")
		require.NoError(t, os.WriteFile(path, []byte("framework: [\n"), 0o644))

		_, err := loadAxes(path, nil)
		require.Error(t, err)
	})
}

func TestCountNoun(t *testing.T) {
	assert.Equal(t, "1 file", countNoun(1, "file"))
	assert.Equal(t, "2 files", countNoun(2, "file"))
	assert.Equal(t, "0 violations", countNoun(0, "violation"))
}

func TestGenerateCommand(t *testing.T) {
	target := t.TempDir()
	cmd := NewModelForgeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"generate", "--target", target, "--set", "framework=xgboost"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "5 files")
	assert.FileExists(t, filepath.Join(target, "code", "serve.py"))
	assert.FileExists(t, filepath.Join(target, "sample_model", "train_abalone.py"))
}

func TestGenerateCommandConflict(t *testing.T) {
	target := t.TempDir()
	run := func() error {
		cmd := NewModelForgeCommand()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"generate", "--target", target})
		return cmd.Execute()
	}
	require.NoError(t, run())

	err := run()
	require.Error(t, err)
	assert.True(t, modelforge.IsConflictError(err))
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cmd := NewModelForgeCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"validate", "--set", "framework=tensorflow"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "modelFormat: keras")
	})

	t.Run("incompatible", func(t *testing.T) {
		cmd := NewModelForgeCommand()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"validate", "--set", "modelServer=sglang", "--set", "framework=sklearn"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.True(t, modelforge.IsCompatibilityError(err))
	})
}

func TestAxesCommand(t *testing.T) {
	cmd := NewModelForgeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"axes"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "modelServer")
	assert.Contains(t, out.String(), "flask | fastapi | sglang")
	assert.Contains(t, out.String(), "framework=xgboost: json | model | ubj")
}
