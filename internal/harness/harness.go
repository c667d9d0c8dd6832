package harness

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/format"
	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/modeldoc"
)

// Outcome is one scenario execution: the full result set, the summary,
// and any expectation failures.
type Outcome struct {
	Scenario *Scenario
	Results  map[string]model.CalculationResult
	Summary  model.CalculationSummary
	Report   modeldoc.Report
	Failures []string
}

// Run executes a scenario against a fresh engine and checks its
// expectations.
func Run(s *Scenario) *Outcome {
	e := engine.New()
	report := modeldoc.Load(e, &s.Model)
	results, summary := e.CalculateAll()

	out := &Outcome{
		Scenario: s,
		Results:  results,
		Summary:  summary,
		Report:   report,
	}

	if report.Dropped > 0 && !s.AllowDropped {
		out.fail("import dropped %d entries: %s",
			report.Dropped, strings.Join(report.Reasons, "; "))
	}
	for _, exp := range s.Expect {
		out.check(exp)
	}
	return out
}

func (o *Outcome) fail(msg string, args ...any) {
	o.Failures = append(o.Failures, fmt.Sprintf(msg, args...))
}

func (o *Outcome) check(exp Expectation) {
	r, ok := o.Results[exp.Component]
	if !ok {
		o.fail("expectation on %q: component was not evaluated", exp.Component)
		return
	}
	if exp.IsError && !r.IsError() {
		o.fail("component %q: expected degraded result, got value %v", exp.Component, r.Value)
	}
	if !exp.IsError && r.IsError() {
		o.fail("component %q: unexpectedly degraded", exp.Component)
	}
	if exp.Value != nil {
		tol := exp.Tolerance
		if tol == 0 {
			tol = 1e-9
		}
		if math.Abs(r.Value-*exp.Value) > tol {
			o.fail("component %q: value %v, want %v (±%v)", exp.Component, r.Value, *exp.Value, tol)
		}
	}
	if exp.Formatted != "" && r.FormattedValue != exp.Formatted {
		o.fail("component %q: formatted %q, want %q", exp.Component, r.FormattedValue, exp.Formatted)
	}
}

// RenderReport produces the deterministic text report golden files
// capture. All numbers pass through fixed-point or display formatting,
// so the report is stable across platforms.
func (o *Outcome) RenderReport() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", o.Scenario.Name)

	b.WriteString("\n== components ==\n")
	ids := make([]string, 0, len(o.Results))
	for id := range o.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		r := o.Results[id]
		fmt.Fprintf(&b, "%s = %s [confidence %.2f]\n", id, r.FormattedValue, r.Confidence)
	}

	s := o.Summary
	b.WriteString("\n== summary ==\n")
	fmt.Fprintf(&b, "total revenue = %s\n", format.Format(s.TotalRevenue, model.SemanticCurrency))
	fmt.Fprintf(&b, "total costs = %s\n", format.Format(s.TotalCosts, model.SemanticCurrency))
	fmt.Fprintf(&b, "net value = %s\n", format.Format(s.NetValue, model.SemanticCurrency))
	fmt.Fprintf(&b, "net benefit = %s\n", format.Format(s.NetBenefit, model.SemanticCurrency))
	fmt.Fprintf(&b, "roi = %s\n", format.Format(s.ROI, model.SemanticPercentage))
	fmt.Fprintf(&b, "confidence = %.2f\n", s.Confidence)
	fmt.Fprintf(&b, "payback period = %s\n", format.Format(s.PaybackPeriod, model.SemanticDuration))
	fmt.Fprintf(&b, "npv = %s\n", format.Format(s.NPV, model.SemanticCurrency))
	fmt.Fprintf(&b, "irr = %s\n", format.Format(s.IRR, model.SemanticPercentage))
	return []byte(b.String())
}
