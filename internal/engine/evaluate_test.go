package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/model"
)

func TestCalculate_RevenueStream(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:   "rev",
		Kind: model.KindRevenueStream,
		Properties: model.Properties{
			"unitPrice":  100.0,
			"quantity":   10.0,
			"growthRate": 0.0,
			"periods":    12.0,
		},
	})

	got := e.Calculate("rev")
	assert.InDelta(t, 12000.0, got.Value, 1e-9)
	assert.Equal(t, "$12K", got.FormattedValue)
	assert.Equal(t, model.SemanticCurrency, got.SemanticType)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)
}

func TestCalculate_RevenueStreamWithGrowth(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:   "rev",
		Kind: model.KindRevenueStream,
		Properties: model.Properties{
			"unitPrice":  100.0,
			"quantity":   1.0,
			"growthRate": 10.0,
			"periods":    3.0,
		},
	})

	// 100 + 110 + 121: discrete period-over-period growth.
	assert.InDelta(t, 331.0, e.Calculate("rev").Value, 1e-9)
}

func TestCalculate_CostCenter(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:   "ops",
		Kind: model.KindCostCenter,
		Properties: model.Properties{
			"monthlyCost": 1000.0,
			"periods":     12.0,
		},
	})

	got := e.Calculate("ops")
	assert.InDelta(t, 12000.0, got.Value, 1e-9)
	assert.Equal(t, model.SemanticCurrency, got.SemanticType)
}

func TestCalculate_ROI(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:   "roi",
		Kind: model.KindROI,
		Properties: model.Properties{
			"investment":    50000.0,
			"annualBenefit": 30000.0,
			"periods":       3.0,
		},
	})

	got := e.Calculate("roi")
	assert.InDelta(t, 80.0, got.Value, 1e-9)
	assert.Equal(t, "80.0%", got.FormattedValue)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)
}

func TestCalculate_ROIZeroInvestment(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:   "roi",
		Kind: model.KindROI,
		Properties: model.Properties{
			"investment":    0.0,
			"annualBenefit": 30000.0,
			"periods":       3.0,
		},
	})

	// Defined as zero, not a division error.
	got := e.Calculate("roi")
	assert.InDelta(t, 0.0, got.Value, 1e-9)
	assert.False(t, got.IsError())
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)
}

func TestCalculate_NPV(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:   "npv",
		Kind: model.KindNPV,
		Properties: model.Properties{
			"cashFlows":    []any{100.0, 100.0},
			"discountRate": 10.0,
		},
	})

	// 100/1.1 + 100/1.21
	got := e.Calculate("npv")
	assert.InDelta(t, 173.553719, got.Value, 1e-6)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
}

func TestCalculate_Payback(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:   "pb",
		Kind: model.KindPayback,
		Properties: model.Properties{
			"investment":     100000.0,
			"annualCashFlow": 50000.0,
		},
	})

	got := e.Calculate("pb")
	assert.InDelta(t, 2.0, got.Value, 1e-9)
	assert.Equal(t, "2 years", got.FormattedValue)
	assert.Equal(t, model.SemanticDuration, got.SemanticType)
}

func TestCalculate_PaybackNonPositiveCashFlow(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:   "pb",
		Kind: model.KindPayback,
		Properties: model.Properties{
			"investment":     100000.0,
			"annualCashFlow": 0.0,
		},
	})

	// Flagged by lower confidence, not a division error.
	got := e.Calculate("pb")
	assert.InDelta(t, 0.0, got.Value, 1e-9)
	assert.False(t, got.IsError())
	assert.Less(t, got.Confidence, 0.85)
	assert.Greater(t, got.Confidence, 0.0)
}

func TestCalculate_Sensitivity(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:   "sens",
		Kind: model.KindSensitivity,
		Properties: model.Properties{
			"baseCase":  100.0,
			"scenarios": []any{90.0, 110.0},
		},
	})

	// Population std dev around the base case: 10, i.e. 10% of base.
	got := e.Calculate("sens")
	assert.InDelta(t, 10.0, got.Value, 1e-9)
	assert.InDelta(t, 0.7, got.Confidence, 1e-9)
}

func TestCalculate_VariableValue(t *testing.T) {
	e := New()
	mustRegister(t, e, variable("v", 42))

	got := e.Calculate("v")
	assert.InDelta(t, 42.0, got.Value, 1e-9)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	assert.Equal(t, model.SemanticPlain, got.SemanticType)
}

func TestCalculate_VariableWithFormulaDefers(t *testing.T) {
	e := New()
	mustRegister(t, e,
		variable("a", 6),
		model.Component{
			ID:   "v",
			Kind: model.KindVariable,
			Properties: model.Properties{
				"value":   1.0,
				"formula": "$a * 7",
			},
		},
	)

	got := e.Calculate("v")
	assert.InDelta(t, 42.0, got.Value, 1e-9)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9, "formula path takes formula confidence")
}

func TestCalculate_FormulaReferences(t *testing.T) {
	e := New()
	mustRegister(t, e,
		variable("A", 100),
		variable("B", 250),
		formulaOf("total", "$A + $B"),
	)

	got := e.Calculate("total")
	assert.InDelta(t, 350.0, got.Value, 1e-9)
	assert.Equal(t, "350", got.FormattedValue)
	assert.Equal(t, []string{"A", "B"}, got.DependencyIDs)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
}

func TestCalculate_MissingRequiredProperty(t *testing.T) {
	e := New()
	mustRegister(t, e, model.Component{
		ID:         "rev",
		Kind:       model.KindRevenueStream,
		Properties: model.Properties{"quantity": 10.0},
	})

	got := e.Calculate("rev")
	assert.True(t, got.IsError())
	assert.Equal(t, 0.0, got.Value)
	assert.Equal(t, "Error", got.FormattedValue)
}

func TestCalculate_MalformedFormula(t *testing.T) {
	e := New()
	mustRegister(t, e, formulaOf("bad", "$a ++ unsafe()"))

	got := e.Calculate("bad")
	assert.True(t, got.IsError())
}

func TestCalculate_DivisionByZeroDegrades(t *testing.T) {
	e := New()
	mustRegister(t, e,
		variable("zero", 0),
		formulaOf("div", "100 / $zero"),
	)

	got := e.Calculate("div")
	assert.True(t, got.IsError())
}

func TestCalculate_CycleSafety(t *testing.T) {
	e := New()
	mustRegister(t, e,
		formulaOf("X", "$Y"),
		formulaOf("Y", "$X"),
	)

	// Must degrade, never recurse forever or overflow the stack.
	for _, id := range []string{"X", "Y"} {
		got := e.Calculate(id)
		assert.True(t, got.IsError(), "component %s on a cycle must error", id)
	}
	require.Len(t, e.Cycles(), 1)
	assert.ElementsMatch(t, []string{"X", "Y"}, e.Cycles()[0])
}

func TestCalculate_SelfReferenceCycle(t *testing.T) {
	e := New()
	mustRegister(t, e, formulaOf("loop", "$loop + 1"))

	assert.True(t, e.Calculate("loop").IsError())
}

func TestCalculate_GracefulDegradation(t *testing.T) {
	e := New()
	mustRegister(t, e,
		formulaOf("broken", "$does_not_exist * 2"),
		variable("healthy", 17),
		formulaOf("fine", "$healthy + 3"),
	)

	results, _ := e.CalculateAll()

	// The bad component degrades alone.
	assert.True(t, results["broken"].IsError())
	assert.Equal(t, 0.0, results["broken"].Value)
	assert.Equal(t, 0.0, results["broken"].Confidence)

	// Siblings still evaluate normally in the same pass.
	assert.InDelta(t, 17.0, results["healthy"].Value, 1e-9)
	assert.InDelta(t, 20.0, results["fine"].Value, 1e-9)
}

func TestCalculate_ErroredDependencyPoisonsFormula(t *testing.T) {
	e := New()
	mustRegister(t, e,
		model.Component{
			ID:         "broken",
			Kind:       model.KindRevenueStream,
			Properties: model.Properties{},
		},
		formulaOf("downstream", "$broken * 2"),
	)

	// Substituting zero for a failed dependency would hide the failure.
	assert.True(t, e.Calculate("downstream").IsError())
}

func TestCalculate_UnregisteredID(t *testing.T) {
	e := New()
	got := e.Calculate("nobody")
	assert.True(t, got.IsError())
}

func TestCalculate_DepthCeiling(t *testing.T) {
	// A deep but acyclic chain past the ceiling degrades instead of
	// overflowing.
	e := New(WithMaxDepth(5))
	mustRegister(t, e, variable("f00", 1))
	for i := 1; i <= 10; i++ {
		mustRegister(t, e, formulaOf(
			fmt.Sprintf("f%02d", i),
			fmt.Sprintf("$f%02d + 1", i-1),
		))
	}

	assert.True(t, e.Calculate("f10").IsError())
}
