package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCommands_RoundTrip(t *testing.T) {
	modelPath := writeDemoModel(t)
	dbPath := filepath.Join(t.TempDir(), "tally.db")

	out, _, err := execute(t, "save", "demo", modelPath, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, `Saved model "demo" (3 components)`)

	out, _, err = execute(t, "models", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "demo")

	out, _, err = execute(t, "--format", "json", "load", "demo", "--db", dbPath)
	require.NoError(t, err)
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Components []struct {
				ID string `json:"id"`
			} `json:"components"`
			Metadata struct {
				Name string `json:"name"`
			} `json:"metadata"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Data.Components, 3)
	assert.Equal(t, "demo", resp.Data.Metadata.Name)

	out, _, err = execute(t, "delete", "demo", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted model "demo"`)

	_, _, err = execute(t, "load", "demo", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSaveCommand_RejectsInvalidModel(t *testing.T) {
	model := `{
  "components": [
    {"id": "", "type": "variable", "properties": {}}
  ],
  "metadata": {"version": "1"}
}`
	modelPath := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(model), 0o644))
	dbPath := filepath.Join(t.TempDir(), "tally.db")

	_, _, err := execute(t, "save", "bad", modelPath, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// Nothing landed in the store.
	out, _, err := execute(t, "models", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No stored models")
}

func TestLoadCommand_WritesFile(t *testing.T) {
	modelPath := writeDemoModel(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "tally.db")
	outPath := filepath.Join(dir, "exported.json")

	_, _, err := execute(t, "save", "demo", modelPath, "--db", dbPath)
	require.NoError(t, err)

	out, _, err := execute(t, "load", "demo", "--db", dbPath, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote model")

	// The written file is itself a loadable model.
	doc, err := LoadModelFile(outPath)
	require.NoError(t, err)
	assert.Len(t, doc.Components, 3)
}

func TestDeleteCommand_NotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tally.db")

	out, _, err := execute(t, "delete", "ghost", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "model not found")
}
