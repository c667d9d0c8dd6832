package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	path := writeDemoModel(t)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Model valid")
}

func TestValidateCommand_UnknownKind(t *testing.T) {
	model := `{
  "components": [
    {"id": "x", "type": "profit-machine", "properties": {}}
  ],
  "metadata": {"version": "1"}
}`
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(model), 0o644))

	out, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Validation failed")
}

func TestValidateCommand_MissingMetadataVersion(t *testing.T) {
	model := `{
  "components": [],
  "metadata": {"version": ""}
}`
	path := filepath.Join(t.TempDir(), "noversion.json")
	require.NoError(t, os.WriteFile(path, []byte(model), 0o644))

	_, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateCommand_YAMLModel(t *testing.T) {
	model := `
components:
  - id: v
    type: variable
    properties:
      value: 7
metadata:
  version: "1"
`
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(model), 0o644))

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Model valid")
}

func TestValidateCommand_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	_, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
