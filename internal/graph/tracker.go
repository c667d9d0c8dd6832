// Package graph derives and maintains the dependency graph over
// component ids.
//
// Edges come from two places: $id references in formula text, and
// explicit connection records from the canvas. The graph is rebuilt
// whenever the component set changes; rebuilds are cheap at the scale
// models actually reach (tens of components).
//
// Cycle detection runs on every rebuild using three-color DFS from
// lvlath. Cycles are recorded as data, not surfaced as a rebuild error:
// registration of a cyclic model must succeed, and the CyclicDependency
// failure surfaces when a member component is evaluated.
package graph

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/roach88/tally/internal/formula"
	"github.com/roach88/tally/internal/model"
)

// Tracker owns the dependency graph derived from the current component
// set. Not safe for concurrent mutation; the engine serializes access.
type Tracker struct {
	deps       map[string]map[string]bool // id -> ids it references
	dependents map[string]map[string]bool // id -> ids that reference it
	cycles     [][]string                 // distinct cycles from the last rebuild
	onCycle    map[string]bool            // membership index over cycles
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		deps:       make(map[string]map[string]bool),
		dependents: make(map[string]map[string]bool),
		onCycle:    make(map[string]bool),
	}
}

// Rebuild recomputes the full graph from the given components and
// explicit connections, then reruns cycle detection.
//
// A connection {source, target} means target consumes source's value,
// i.e. target depends on source. Formula references are extracted
// textually (formula.ExtractRefs) so that a formula too malformed to
// parse still contributes its visible edges; its parse error surfaces
// at evaluation.
func (t *Tracker) Rebuild(components map[string]model.Component, connections []model.Connection) error {
	t.deps = make(map[string]map[string]bool, len(components))
	t.dependents = make(map[string]map[string]bool, len(components))

	for id, c := range components {
		for _, ref := range referencedIDs(c) {
			t.addEdge(id, ref)
		}
	}
	for _, conn := range connections {
		if conn.Source == "" || conn.Target == "" {
			continue
		}
		t.addEdge(conn.Target, conn.Source)
	}

	return t.detectCycles()
}

func (t *Tracker) addEdge(from, to string) {
	if t.deps[from] == nil {
		t.deps[from] = make(map[string]bool)
	}
	t.deps[from][to] = true
	if t.dependents[to] == nil {
		t.dependents[to] = make(map[string]bool)
	}
	t.dependents[to][from] = true
}

// DependenciesOf returns the ids the given component references, sorted.
func (t *Tracker) DependenciesOf(id string) []string {
	return sortedKeys(t.deps[id])
}

// DependentsOf returns the ids that reference the given component,
// sorted. This is the reverse-edge set invalidation propagates along.
func (t *Tracker) DependentsOf(id string) []string {
	return sortedKeys(t.dependents[id])
}

// TransitiveDependents returns every id whose value is derived, directly
// or not, from the given id. The walk tolerates cycles: each node is
// visited once.
func (t *Tracker) TransitiveDependents(id string) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for dep := range t.dependents[cur] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			walk(dep)
		}
	}
	walk(id)
	sort.Strings(out)
	return out
}

// Cycles returns the distinct cycles found by the last rebuild, each as
// its sorted member ids, in deterministic order.
func (t *Tracker) Cycles() [][]string {
	out := make([][]string, len(t.cycles))
	for i, c := range t.cycles {
		cp := make([]string, len(c))
		copy(cp, c)
		out[i] = cp
	}
	return out
}

// OnCycle reports whether the id is a member of any detected cycle.
func (t *Tracker) OnCycle(id string) bool {
	return t.onCycle[id]
}

// CycleFor returns the members of the first detected cycle containing
// id, or nil when the id is acyclic.
func (t *Tracker) CycleFor(id string) []string {
	for _, c := range t.cycles {
		for _, member := range c {
			if member == id {
				cp := make([]string, len(c))
				copy(cp, c)
				return cp
			}
		}
	}
	return nil
}

// detectCycles mirrors the edge set into an lvlath directed graph and
// runs its DFS cycle enumeration.
func (t *Tracker) detectCycles() error {
	t.cycles = nil
	t.onCycle = make(map[string]bool)

	g, err := core.NewGraph(core.WithDirected(true), core.WithLoops())
	if err != nil {
		return fmt.Errorf("graph: new graph: %w", err)
	}
	for from, tos := range t.deps {
		for _, to := range sortedKeys(tos) {
			if _, err := g.AddEdge(from, to, 0); err != nil {
				return fmt.Errorf("graph: add edge %s->%s: %w", from, to, err)
			}
		}
	}

	result, err := dfs.DetectCycles(g)
	if err != nil {
		return fmt.Errorf("graph: detect cycles: %w", err)
	}
	if !result.HasCycle {
		return nil
	}
	for _, cycle := range result.Cycles {
		members := dedupSorted(cycle)
		t.cycles = append(t.cycles, members)
		for _, id := range members {
			t.onCycle[id] = true
		}
	}
	return nil
}

// referencedIDs extracts the ids a component depends on through its
// formula text. Only variable and formula kinds carry formulas.
func referencedIDs(c model.Component) []string {
	switch c.Kind {
	case model.KindFormula, model.KindVariable:
		raw, ok := c.Properties["formula"]
		if !ok {
			return nil
		}
		src, ok := raw.(string)
		if !ok {
			return nil
		}
		return formula.ExtractRefs(src)
	default:
		return nil
	}
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// dedupSorted normalizes a cycle path (which may repeat its start node)
// into sorted distinct member ids.
func dedupSorted(path []string) []string {
	seen := make(map[string]bool, len(path))
	var out []string
	for _, id := range path {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
