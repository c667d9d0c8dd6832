// Package engine implements the tally reactive calculation engine.
//
// The engine is a small incremental dataflow evaluator over a model's
// components: each component's value is computed on demand by a
// kind-specific rule, formula components resolve $id references by
// recursing through the engine, and results are memoized until a
// mutation invalidates them.
//
// ARCHITECTURE:
//
// Registry, tracker, cache:
// The engine owns the component registry (id -> component), a dependency
// tracker derived from formula references and explicit connections, and
// a result cache. Every mutation (register, update, remove) invalidates
// the affected id plus its transitive dependents and rebuilds the
// dependency graph, so the next read recomputes exactly the stale
// subset.
//
// Error containment:
// Structural errors (unknown kind, unknown id) return from registry
// operations as *Error values. Computation errors (missing property,
// malformed formula, cyclic or dangling reference) never escape
// Calculate: they degrade that one component's result to
// {Value: 0, FormattedValue: "Error", Confidence: 0}. A single bad
// component must never prevent the rest of a model from rendering.
//
// Termination:
// Cycle detection on every graph rebuild is the primary guard against
// non-terminating evaluation; a recursion depth ceiling (WithMaxDepth)
// backs it up as defense in depth.
//
// Concurrency:
// An Engine is a plain value with no interior locking. Evaluation is
// synchronous and in-memory; callers embedding engines in a server hold
// one engine per model and serialize access per engine. Independent
// engines share nothing.
package engine
