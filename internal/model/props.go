package model

import "fmt"

// PropertyError reports a required property that is missing from a
// component's bag or holds a value of the wrong shape.
type PropertyError struct {
	Key     string
	Message string
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property %q: %s", e.Key, e.Message)
}

// RevenueStreamProps drives the revenue-stream rule: unitPrice*quantity
// compounded by growthRate percent over periods discrete steps.
type RevenueStreamProps struct {
	UnitPrice  float64
	Quantity   float64
	GrowthRate float64 // percent per period
	Periods    int
}

// CostCenterProps drives the cost-center rule, the cost-side analogue of
// a revenue stream.
type CostCenterProps struct {
	MonthlyCost    float64
	Periods        int
	EscalationRate float64 // percent per period
}

// ROIProps drives the roi-calculator rule.
type ROIProps struct {
	Investment    float64
	AnnualBenefit float64
	Periods       int
}

// NPVProps drives the npv-calculator rule.
type NPVProps struct {
	CashFlows    []float64
	DiscountRate float64 // percent
}

// PaybackProps drives the payback-calculator rule.
type PaybackProps struct {
	Investment     float64
	AnnualCashFlow float64
}

// SensitivityProps drives the sensitivity-analysis rule.
type SensitivityProps struct {
	BaseCase  float64
	Scenarios []float64
}

// VariableProps holds either a direct value or a formula to defer to.
// HasFormula distinguishes "no formula" from an empty formula string.
type VariableProps struct {
	Value      float64
	Formula    string
	HasFormula bool
}

// FormulaProps holds a formula component's expression source.
type FormulaProps struct {
	Expression string
}

// DecodeRevenueStream extracts typed revenue-stream properties from a bag.
func DecodeRevenueStream(p Properties) (RevenueStreamProps, error) {
	var out RevenueStreamProps
	var err error
	if out.UnitPrice, err = requireNumber(p, "unitPrice"); err != nil {
		return out, err
	}
	if out.Quantity, err = requireNumber(p, "quantity"); err != nil {
		return out, err
	}
	out.GrowthRate = optionalNumber(p, "growthRate", 0)
	out.Periods = int(optionalNumber(p, "periods", 1))
	return out, nil
}

// DecodeCostCenter extracts typed cost-center properties from a bag.
func DecodeCostCenter(p Properties) (CostCenterProps, error) {
	var out CostCenterProps
	var err error
	if out.MonthlyCost, err = requireNumber(p, "monthlyCost"); err != nil {
		return out, err
	}
	out.Periods = int(optionalNumber(p, "periods", 1))
	out.EscalationRate = optionalNumber(p, "escalationRate", 0)
	return out, nil
}

// DecodeROI extracts typed roi-calculator properties from a bag.
func DecodeROI(p Properties) (ROIProps, error) {
	var out ROIProps
	var err error
	if out.Investment, err = requireNumber(p, "investment"); err != nil {
		return out, err
	}
	if out.AnnualBenefit, err = requireNumber(p, "annualBenefit"); err != nil {
		return out, err
	}
	out.Periods = int(optionalNumber(p, "periods", 1))
	return out, nil
}

// DecodeNPV extracts typed npv-calculator properties from a bag.
func DecodeNPV(p Properties) (NPVProps, error) {
	var out NPVProps
	var err error
	if out.CashFlows, err = requireNumberList(p, "cashFlows"); err != nil {
		return out, err
	}
	out.DiscountRate = optionalNumber(p, "discountRate", 0)
	return out, nil
}

// DecodePayback extracts typed payback-calculator properties from a bag.
func DecodePayback(p Properties) (PaybackProps, error) {
	var out PaybackProps
	var err error
	if out.Investment, err = requireNumber(p, "investment"); err != nil {
		return out, err
	}
	if out.AnnualCashFlow, err = requireNumber(p, "annualCashFlow"); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeSensitivity extracts typed sensitivity-analysis properties from a bag.
func DecodeSensitivity(p Properties) (SensitivityProps, error) {
	var out SensitivityProps
	var err error
	if out.BaseCase, err = requireNumber(p, "baseCase"); err != nil {
		return out, err
	}
	if out.Scenarios, err = requireNumberList(p, "scenarios"); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeVariable extracts typed variable properties from a bag. A
// variable needs either a formula or a value; a formula wins when both
// are present.
func DecodeVariable(p Properties) (VariableProps, error) {
	var out VariableProps
	if raw, ok := p["formula"]; ok {
		s, ok := raw.(string)
		if !ok {
			return out, &PropertyError{Key: "formula", Message: "must be a string"}
		}
		out.Formula = s
		out.HasFormula = true
		return out, nil
	}
	v, err := requireNumber(p, "value")
	if err != nil {
		return out, err
	}
	out.Value = v
	return out, nil
}

// DecodeFormula extracts a formula component's expression from a bag.
func DecodeFormula(p Properties) (FormulaProps, error) {
	raw, ok := p["formula"]
	if !ok {
		return FormulaProps{}, &PropertyError{Key: "formula", Message: "required property is missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return FormulaProps{}, &PropertyError{Key: "formula", Message: "must be a string"}
	}
	return FormulaProps{Expression: s}, nil
}

// asNumber coerces JSON-decoded numeric shapes to float64.
// encoding/json gives float64, YAML gives int or float64, and tests
// often hand in untyped ints.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func requireNumber(p Properties, key string) (float64, error) {
	raw, ok := p[key]
	if !ok {
		return 0, &PropertyError{Key: key, Message: "required property is missing"}
	}
	n, ok := asNumber(raw)
	if !ok {
		return 0, &PropertyError{Key: key, Message: "must be a number"}
	}
	return n, nil
}

func optionalNumber(p Properties, key string, def float64) float64 {
	raw, ok := p[key]
	if !ok {
		return def
	}
	n, ok := asNumber(raw)
	if !ok {
		return def
	}
	return n
}

func requireNumberList(p Properties, key string) ([]float64, error) {
	raw, ok := p[key]
	if !ok {
		return nil, &PropertyError{Key: key, Message: "required property is missing"}
	}
	switch list := raw.(type) {
	case []float64:
		out := make([]float64, len(list))
		copy(out, list)
		return out, nil
	case []any:
		out := make([]float64, 0, len(list))
		for i, elem := range list {
			n, ok := asNumber(elem)
			if !ok {
				return nil, &PropertyError{Key: key, Message: fmt.Sprintf("element %d must be a number", i)}
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, &PropertyError{Key: key, Message: "must be a list of numbers"}
	}
}
