package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario file and compares its rendered
// report against testdata/<scenario name>.golden.
//
// To regenerate golden files:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenarioPath string) *Outcome {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	out := Run(s)
	for _, failure := range out.Failures {
		t.Errorf("scenario %s: %s", s.Name, failure)
	}

	g := goldie.New(t)
	g.Assert(t, s.Name, out.RenderReport())
	return out
}
