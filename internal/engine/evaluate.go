package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/tally/internal/format"
	"github.com/roach88/tally/internal/formula"
	"github.com/roach88/tally/internal/model"
)

// Confidence constants per component kind. These are heuristic
// indicators of input reliability, not statistical measures.
const (
	confidenceRevenue     = 0.9
	confidenceCost        = 0.9
	confidenceROI         = 0.85
	confidenceNPV         = 0.8
	confidencePayback     = 0.85
	confidencePaybackWeak = 0.5 // non-positive cash flow, payback undefined
	confidenceSensitivity = 0.7
	confidenceFormula     = 0.8
	confidenceVariable    = 1.0
)

// Calculate computes one component's result, serving from cache when
// valid. It never returns an error: computation failures degrade to
// {Value: 0, FormattedValue: "Error", Confidence: 0} for this component
// only.
func (e *Engine) Calculate(id string) model.CalculationResult {
	return e.calculate(id, 0)
}

func (e *Engine) calculate(id string, depth int) model.CalculationResult {
	if r, ok := e.cache[id]; ok {
		return r
	}

	c, ok := e.components[id]
	if !ok {
		// Unregistered ids are not cached: the error clears itself if
		// the component is registered later.
		return errorResult(model.SemanticPlain, nil)
	}

	if depth >= e.maxDepth {
		// Depth-relative degradation is not cached either; the same
		// component evaluated from the top may be fine.
		e.degrade(id, NewCycleError(id, nil))
		return errorResult(model.SemanticTypeFor(c.Kind), nil)
	}

	r := e.compute(c, depth)
	e.cache[id] = r
	return r
}

// compute dispatches on the component's kind. The switch is exhaustive
// over the closed variant set; Register guarantees no other kind is
// stored.
func (e *Engine) compute(c model.Component, depth int) model.CalculationResult {
	semantic := model.SemanticTypeFor(c.Kind)

	if e.tracker.OnCycle(c.ID) {
		e.degrade(c.ID, NewCycleError(c.ID, e.tracker.CycleFor(c.ID)))
		return errorResult(semantic, nil)
	}

	var (
		value      float64
		confidence float64
		deps       []string
		err        error
	)
	switch c.Kind {
	case model.KindRevenueStream:
		value, confidence, err = revenueStream(c.Properties)
	case model.KindCostCenter:
		value, confidence, err = costCenter(c.Properties)
	case model.KindROI:
		value, confidence, err = roi(c.Properties)
	case model.KindNPV:
		value, confidence, err = npv(c.Properties)
	case model.KindPayback:
		value, confidence, err = payback(c.Properties)
	case model.KindSensitivity:
		value, confidence, err = sensitivity(c.Properties)
	case model.KindVariable:
		value, confidence, deps, err = e.variable(c, depth)
	case model.KindFormula:
		value, confidence, deps, err = e.formulaValue(c, depth)
	default:
		err = NewUnknownKindError(c.ID, string(c.Kind))
	}

	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
		err = NewMalformedFormulaError(c.ID, fmt.Errorf("result is not a finite number"))
	}
	if err != nil {
		var ee *Error
		if errors.As(err, &ee) && ee.ComponentID == "" {
			ee.ComponentID = c.ID
		}
		e.degrade(c.ID, err)
		return errorResult(semantic, deps)
	}

	return model.CalculationResult{
		Value:          value,
		FormattedValue: format.Format(value, semantic),
		Confidence:     confidence,
		DependencyIDs:  deps,
		SemanticType:   semantic,
	}
}

// degrade logs a contained computation failure. The caller substitutes
// the zero-confidence error result.
func (e *Engine) degrade(id string, err error) {
	e.log.Warn("component evaluation degraded", "id", id, "err", err)
}

func errorResult(semantic model.SemanticType, deps []string) model.CalculationResult {
	return model.CalculationResult{
		Value:          0,
		FormattedValue: "Error",
		Confidence:     0,
		DependencyIDs:  deps,
		SemanticType:   semantic,
	}
}

// revenueStream sums unitPrice*quantity compounded period-over-period
// by growthRate percent. Discrete multiplicative growth, not continuous
// compounding.
func revenueStream(p model.Properties) (float64, float64, error) {
	props, err := model.DecodeRevenueStream(p)
	if err != nil {
		return 0, 0, wrapDecode(err)
	}
	base := props.UnitPrice * props.Quantity
	growth := 1 + props.GrowthRate/100
	total := 0.0
	for t := 0; t < props.Periods; t++ {
		total += base * math.Pow(growth, float64(t))
	}
	return total, confidenceRevenue, nil
}

// costCenter is the cost-side analogue: monthlyCost escalated per
// period.
func costCenter(p model.Properties) (float64, float64, error) {
	props, err := model.DecodeCostCenter(p)
	if err != nil {
		return 0, 0, wrapDecode(err)
	}
	escalation := 1 + props.EscalationRate/100
	total := 0.0
	for t := 0; t < props.Periods; t++ {
		total += props.MonthlyCost * math.Pow(escalation, float64(t))
	}
	return total, confidenceCost, nil
}

// roi computes ((annualBenefit*periods - investment) / investment) * 100.
// Zero investment is defined as roi 0, not a division error.
func roi(p model.Properties) (float64, float64, error) {
	props, err := model.DecodeROI(p)
	if err != nil {
		return 0, 0, wrapDecode(err)
	}
	if props.Investment == 0 {
		return 0, confidenceROI, nil
	}
	totalBenefit := props.AnnualBenefit * float64(props.Periods)
	return (totalBenefit - props.Investment) / props.Investment * 100, confidenceROI, nil
}

// npv discounts each cash flow by (1+rate)^(t+1): flows are end-of-period.
func npv(p model.Properties) (float64, float64, error) {
	props, err := model.DecodeNPV(p)
	if err != nil {
		return 0, 0, wrapDecode(err)
	}
	rate := 1 + props.DiscountRate/100
	total := 0.0
	for t, flow := range props.CashFlows {
		total += flow / math.Pow(rate, float64(t+1))
	}
	return total, confidenceNPV, nil
}

// payback returns investment/annualCashFlow in years. A non-positive
// cash flow yields 0 flagged by reduced confidence rather than a
// division error.
func payback(p model.Properties) (float64, float64, error) {
	props, err := model.DecodePayback(p)
	if err != nil {
		return 0, 0, wrapDecode(err)
	}
	if props.AnnualCashFlow <= 0 {
		return 0, confidencePaybackWeak, nil
	}
	return props.Investment / props.AnnualCashFlow, confidencePayback, nil
}

// sensitivity is the population standard deviation of the scenarios
// around the base case, normalized to a percentage of the base case.
// A zero base case yields 0: there is nothing to normalize against.
func sensitivity(p model.Properties) (float64, float64, error) {
	props, err := model.DecodeSensitivity(p)
	if err != nil {
		return 0, 0, wrapDecode(err)
	}
	if len(props.Scenarios) == 0 || props.BaseCase == 0 {
		return 0, confidenceSensitivity, nil
	}
	sum := 0.0
	for _, s := range props.Scenarios {
		d := s - props.BaseCase
		sum += d * d
	}
	std := math.Sqrt(sum / float64(len(props.Scenarios)))
	return std / math.Abs(props.BaseCase) * 100, confidenceSensitivity, nil
}

// variable returns its direct value, or defers to formula evaluation
// when a formula is present (taking on formula confidence).
func (e *Engine) variable(c model.Component, depth int) (float64, float64, []string, error) {
	props, err := model.DecodeVariable(c.Properties)
	if err != nil {
		return 0, 0, nil, wrapDecode(err)
	}
	if !props.HasFormula {
		return props.Value, confidenceVariable, nil, nil
	}
	value, deps, err := e.evalFormula(c.ID, props.Formula, depth)
	if err != nil {
		return 0, 0, deps, err
	}
	return value, confidenceFormula, deps, nil
}

// formulaValue evaluates a formula component. This is the recursion
// point: referenced components are resolved through calculate, so
// cyclic and missing-id errors surface here.
func (e *Engine) formulaValue(c model.Component, depth int) (float64, float64, []string, error) {
	props, err := model.DecodeFormula(c.Properties)
	if err != nil {
		return 0, 0, nil, wrapDecode(err)
	}
	value, deps, err := e.evalFormula(c.ID, props.Expression, depth)
	if err != nil {
		return 0, 0, deps, err
	}
	return value, confidenceFormula, deps, nil
}

func (e *Engine) evalFormula(id, src string, depth int) (float64, []string, error) {
	expr, err := formula.Parse(src)
	if err != nil {
		return 0, nil, NewMalformedFormulaError(id, err)
	}
	deps := expr.Refs()

	value, err := expr.Eval(func(ref string) (float64, error) {
		if _, ok := e.components[ref]; !ok {
			return 0, NewNotFoundError(ref)
		}
		r := e.calculate(ref, depth+1)
		if r.IsError() {
			// A failed dependency poisons this formula; substituting
			// zero would hide the failure.
			return 0, &Error{
				Code:        ErrCodeNotFound,
				Message:     fmt.Sprintf("dependency %q failed to evaluate", ref),
				ComponentID: id,
			}
		}
		return r.Value, nil
	})
	if err != nil {
		if CodeOf(err) != "" {
			return 0, deps, err
		}
		return 0, deps, NewMalformedFormulaError(id, err)
	}
	return value, deps, nil
}

func wrapDecode(err error) error {
	return NewMissingPropertyError("", err)
}
