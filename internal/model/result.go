package model

// SemanticType tells the formatter how a raw numeric result should be
// rendered for display.
type SemanticType string

const (
	SemanticCurrency   SemanticType = "currency"
	SemanticPercentage SemanticType = "percentage"
	SemanticDuration   SemanticType = "duration"
	SemanticPlain      SemanticType = "number"
)

// SemanticTypeFor maps a component kind to the display semantics of its
// result.
func SemanticTypeFor(k Kind) SemanticType {
	switch k {
	case KindRevenueStream, KindCostCenter, KindNPV:
		return SemanticCurrency
	case KindROI, KindSensitivity:
		return SemanticPercentage
	case KindPayback:
		return SemanticDuration
	default:
		return SemanticPlain
	}
}

// CalculationResult is one component's computed value. Results are owned
// by the engine's cache until invalidated.
//
// A contained computation failure (missing property, malformed formula,
// cyclic or dangling reference) is encoded as
// {Value: 0, FormattedValue: "Error", Confidence: 0} rather than an
// error return, so one bad component never blocks the rest of the model.
type CalculationResult struct {
	Value          float64      `json:"value"`
	FormattedValue string       `json:"formattedValue"`
	Confidence     float64      `json:"confidenceScore"`
	DependencyIDs  []string     `json:"dependencyIds,omitempty"`
	SemanticType   SemanticType `json:"semanticType"`
}

// IsError reports whether the result encodes a contained computation
// failure.
func (r CalculationResult) IsError() bool {
	return r.Confidence == 0 && r.FormattedValue == "Error"
}

// CalculationSummary is the model-wide rollup recomputed on every full
// evaluation. It is a heuristic: when no dedicated payback/npv
// calculators exist, PaybackPeriod, NPV and IRR are simplified
// derivations from NetValue, not rigorous finance math.
type CalculationSummary struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalCosts    float64 `json:"totalCosts"`
	NetValue      float64 `json:"netValue"`
	NetBenefit    float64 `json:"netBenefit"`
	ROI           float64 `json:"roi"`
	Confidence    float64 `json:"confidence"`
	PaybackPeriod float64 `json:"paybackPeriod"`
	NPV           float64 `json:"npv"`
	IRR           float64 `json:"irr"`
}
