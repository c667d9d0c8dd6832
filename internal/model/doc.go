// Package model defines the data model for tally financial models.
//
// A model is a set of Components keyed by caller-assigned ids. Each
// component has a Kind drawn from a closed variant set and a Properties
// bag holding its kind-specific attributes. The bag is what the UI layer
// edits (partial merges, key removal); the typed per-kind property
// structs in props.go are what the evaluator computes from. Decoding
// from bag to struct happens at evaluation time, so a half-edited
// component degrades that component's result without poisoning the rest
// of the model.
//
// CalculationResult and CalculationSummary are the engine's outputs.
// The summary is a heuristic rollup (see Summarize in internal/engine):
// its payback/npv/irr fallbacks are deliberately approximate and must
// not be mistaken for a rigorous finance model.
package model
