package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/modeldoc"
)

func TestScenario_DemoROIModel(t *testing.T) {
	out := RunWithGolden(t, filepath.Join("testdata", "scenarios", "demo-roi-model.yaml"))
	assert.Empty(t, out.Failures)
}

func TestScenario_DegradedModel(t *testing.T) {
	out := RunWithGolden(t, filepath.Join("testdata", "scenarios", "degraded-model.yaml"))
	assert.Empty(t, out.Failures)
}

func TestLoadScenario_RequiresName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("description: no name\n"), 0o644))

	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRun_ReportsExpectationFailures(t *testing.T) {
	wrong := 999.0
	s := &Scenario{
		Name: "wrong-expectation",
		Model: modeldoc.Document{
			Components: []modeldoc.ComponentDoc{
				{ID: "v", Type: "variable", Properties: map[string]any{"value": 5.0}},
			},
			Metadata: modeldoc.Metadata{Version: modeldoc.FormatVersion},
		},
		Expect: []Expectation{
			{Component: "v", Value: &wrong},
			{Component: "missing"},
		},
	}

	out := Run(s)
	require.Len(t, out.Failures, 2)
}

func TestRun_UnexpectedDropFails(t *testing.T) {
	s := &Scenario{
		Name: "dropping",
		Model: modeldoc.Document{
			Components: []modeldoc.ComponentDoc{
				{ID: "", Type: "variable", Properties: map[string]any{"value": 1.0}},
			},
			Metadata: modeldoc.Metadata{Version: modeldoc.FormatVersion},
		},
	}

	out := Run(s)
	require.NotEmpty(t, out.Failures)

	s.AllowDropped = true
	assert.Empty(t, Run(s).Failures)
}
