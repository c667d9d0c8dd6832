package model

import (
	"fmt"
	"sort"
)

// Kind identifies a component variant. The set is closed: registering a
// component with a kind outside this set is rejected, never stored.
type Kind string

const (
	KindRevenueStream Kind = "revenue-stream"
	KindCostCenter    Kind = "cost-center"
	KindROI           Kind = "roi-calculator"
	KindNPV           Kind = "npv-calculator"
	KindPayback       Kind = "payback-calculator"
	KindSensitivity   Kind = "sensitivity-analysis"
	KindVariable      Kind = "variable"
	KindFormula       Kind = "formula"
)

// Kinds returns all valid component kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindRevenueStream,
		KindCostCenter,
		KindROI,
		KindNPV,
		KindPayback,
		KindSensitivity,
		KindVariable,
		KindFormula,
	}
}

// ParseKind validates a raw kind string against the closed variant set.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if Kind(s) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown component kind %q", s)
}

// Position is a 2D layout hint for the presentation layer. It is carried
// through import/export but never consulted during computation.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Properties is a component's mergeable attribute bag. Values are the
// usual JSON scalars plus []any for list-valued attributes (cash flows,
// scenarios).
type Properties map[string]any

// Clone returns a shallow copy of the bag. List values are copied one
// level deep so callers can't mutate a registered component's lists.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		if list, ok := v.([]any); ok {
			cp := make([]any, len(list))
			copy(cp, list)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// Merge applies a partial bag on top of p and returns the result.
// Existing keys survive unless overwritten; an explicit nil value in the
// partial is the absent marker and removes the key.
func (p Properties) Merge(partial Properties) Properties {
	out := p.Clone()
	if out == nil {
		out = make(Properties, len(partial))
	}
	for k, v := range partial {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the bag's keys sorted, for deterministic serialization
// and diagnostics.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Component is a typed, user-configured unit of a financial model.
//
// INVARIANTS:
//   - ID is unique within a registry instance.
//   - Kind is immutable once registered; changing kind requires
//     re-registration under the same id (which is a replace, not an error).
type Component struct {
	ID         string     `json:"id"`
	Kind       Kind       `json:"type"`
	Properties Properties `json:"properties"`
	Position   Position   `json:"position"`
}

// Connection is an explicit dependency edge between two components,
// produced by the canvas layer. Source feeds target.
type Connection struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
}
