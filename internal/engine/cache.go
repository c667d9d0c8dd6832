package engine

import "github.com/roach88/tally/internal/model"

// Invalidate drops the cached result for id and, transitively, for
// every component whose dependency set includes it. The walk tolerates
// cycles (each node visited once), so termination doesn't depend on the
// graph being acyclic.
func (e *Engine) Invalidate(id string) {
	delete(e.cache, id)
	for _, dep := range e.tracker.TransitiveDependents(id) {
		delete(e.cache, dep)
	}
}

// ClearCache drops every cached result. Used when the full component
// set is replaced, e.g. on model import.
func (e *Engine) ClearCache() {
	e.cache = make(map[string]model.CalculationResult)
}

// Cached returns the cached result for id, if present and valid.
func (e *Engine) Cached(id string) (model.CalculationResult, bool) {
	r, ok := e.cache[id]
	return r, ok
}
