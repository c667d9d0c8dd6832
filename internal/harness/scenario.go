// Package harness runs conformance scenarios against the calculation
// engine.
//
// A scenario is a YAML file bundling a model document with expectations
// about per-component values and the rolled-up summary. Scenarios are
// executed through the same import path production uses (modeldoc.Load),
// and their full evaluation is rendered to a deterministic text report
// compared against golden files.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/modeldoc"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Model is the inline model document to load.
	Model modeldoc.Document `yaml:"model"`

	// Expect lists per-component expectations checked before the
	// golden comparison.
	Expect []Expectation `yaml:"expect,omitempty"`

	// AllowDropped permits the model to contain entries that import
	// drops. Default false: an unexpected drop fails the scenario.
	AllowDropped bool `yaml:"allow_dropped,omitempty"`
}

// Expectation asserts on one component's result.
type Expectation struct {
	// Component is the component id.
	Component string `yaml:"component"`

	// Value is the expected raw value, compared within Tolerance.
	Value *float64 `yaml:"value,omitempty"`

	// Tolerance for the value comparison. Zero means exact-ish (1e-9).
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Formatted is the expected display string, compared exactly.
	Formatted string `yaml:"formatted,omitempty"`

	// IsError expects the component to have degraded.
	IsError bool `yaml:"is_error,omitempty"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("harness: parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("harness: scenario %s: name is required", path)
	}
	return &s, nil
}
