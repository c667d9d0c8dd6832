package engine

import "github.com/roach88/tally/internal/model"

// CalculateAll evaluates every registered component and folds the
// results into the model-wide summary. Components are evaluated in id
// order for deterministic log output; the cache makes order irrelevant
// to the values themselves.
func (e *Engine) CalculateAll() (map[string]model.CalculationResult, model.CalculationSummary) {
	results := make(map[string]model.CalculationResult, len(e.components))
	for _, c := range e.Components() {
		results[c.ID] = e.Calculate(c.ID)
	}
	return results, e.Summarize(results)
}

// Summarize folds a full result set into a CalculationSummary.
//
// This rollup is deliberately heuristic, not rigorous finance math:
// when the model has no dedicated payback/npv calculators, those fields
// are simplified derivations from net value, and IRR falls back to ROI.
// Treat the summary as a dashboard number, not an audited figure.
func (e *Engine) Summarize(results map[string]model.CalculationResult) model.CalculationSummary {
	var s model.CalculationSummary
	if len(results) == 0 {
		// An empty model is neither trustworthy nor untrustworthy.
		s.Confidence = 0.5
		return s
	}

	var (
		confidenceSum float64
		evaluated     int
		paybackValues []float64
		npvValues     []float64
		roiCalcValues []float64
	)

	for _, c := range e.Components() {
		r, ok := results[c.ID]
		if !ok {
			continue
		}
		evaluated++
		confidenceSum += r.Confidence

		if r.IsError() {
			continue
		}
		switch c.Kind {
		case model.KindRevenueStream:
			s.TotalRevenue += r.Value
		case model.KindCostCenter:
			s.TotalCosts += r.Value
		case model.KindPayback:
			paybackValues = append(paybackValues, r.Value)
		case model.KindNPV:
			npvValues = append(npvValues, r.Value)
		case model.KindROI:
			roiCalcValues = append(roiCalcValues, r.Value)
		}
	}

	s.NetValue = s.TotalRevenue - s.TotalCosts
	s.NetBenefit = s.NetValue
	if s.TotalCosts != 0 {
		s.ROI = s.NetValue / s.TotalCosts * 100
	}
	if evaluated > 0 {
		s.Confidence = confidenceSum / float64(evaluated)
	} else {
		s.Confidence = 0.5
	}

	// Dedicated calculators win; otherwise derive simplified values
	// from net value.
	switch {
	case len(paybackValues) > 0:
		s.PaybackPeriod = paybackValues[0]
	case s.NetValue > 0 && s.TotalCosts > 0:
		s.PaybackPeriod = s.TotalCosts / s.NetValue
	}

	if len(npvValues) > 0 {
		for _, v := range npvValues {
			s.NPV += v
		}
	} else {
		// Net value treated as a single end-of-year flow at a 10%
		// discount.
		s.NPV = s.NetValue / 1.1
	}

	if len(roiCalcValues) > 0 {
		s.IRR = roiCalcValues[0]
	} else {
		s.IRR = s.ROI
	}

	return s
}
