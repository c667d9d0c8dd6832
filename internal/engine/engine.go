package engine

import (
	"log/slog"
	"sort"

	"github.com/roach88/tally/internal/graph"
	"github.com/roach88/tally/internal/model"
)

// DefaultMaxDepth is the default formula recursion ceiling. Cycle
// detection is the primary termination guard; the ceiling exists so an
// undetected pathological graph still fails cleanly instead of
// overflowing the stack.
const DefaultMaxDepth = 100

// Engine evaluates one financial model. Construct one per model; there
// is no process-wide instance. Engines are not safe for concurrent
// mutation - callers serialize access per model.
type Engine struct {
	log      *slog.Logger
	maxDepth int

	components  map[string]model.Component
	connections []model.Connection
	tracker     *graph.Tracker
	cache       map[string]model.CalculationResult
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithMaxDepth sets the formula recursion ceiling.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithLogger sets the engine's logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:        slog.Default(),
		maxDepth:   DefaultMaxDepth,
		components: make(map[string]model.Component),
		tracker:    graph.NewTracker(),
		cache:      make(map[string]model.CalculationResult),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register inserts or replaces a component by id. Replacing is not an
// error: re-registration under an existing id is how callers change a
// component's kind. The component's cache entry (and its dependents')
// is invalidated and the dependency graph rebuilt.
func (e *Engine) Register(c model.Component) error {
	if _, err := model.ParseKind(string(c.Kind)); err != nil {
		return NewUnknownKindError(c.ID, string(c.Kind))
	}
	if c.ID == "" {
		return NewNotFoundError("")
	}

	c.Properties = c.Properties.Clone()
	e.Invalidate(c.ID)
	e.components[c.ID] = c
	e.rebuild()
	// Rebuild may have connected new dependents; invalidate again so
	// anything now referencing this id recomputes.
	e.Invalidate(c.ID)

	e.log.Debug("component registered", "id", c.ID, "kind", string(c.Kind))
	return nil
}

// UpdateProperties merges a partial bag into a registered component's
// properties. Previously-set keys survive unless overwritten; an
// explicit nil value removes a key. The component and its transitive
// dependents are invalidated.
func (e *Engine) UpdateProperties(id string, partial model.Properties) error {
	c, ok := e.components[id]
	if !ok {
		return NewNotFoundError(id)
	}

	c.Properties = c.Properties.Merge(partial)
	e.components[id] = c
	e.Invalidate(id)
	e.rebuild()
	e.Invalidate(id)

	e.log.Debug("component updated", "id", id, "keys", len(partial))
	return nil
}

// Remove deletes a component, its cached result, and its edges.
// Removing an unregistered id is a no-op. Components that still
// reference the removed id get a dependency error on their next
// evaluation - never a silent zero.
func (e *Engine) Remove(id string) {
	if _, ok := e.components[id]; !ok {
		return
	}
	e.Invalidate(id)
	delete(e.components, id)
	delete(e.cache, id)
	e.rebuild()

	e.log.Debug("component removed", "id", id)
}

// SetConnections replaces the model's explicit connection records and
// rebuilds the graph. The whole cache is dropped: connection edges can
// reroute invalidation arbitrarily.
func (e *Engine) SetConnections(conns []model.Connection) {
	e.connections = make([]model.Connection, len(conns))
	copy(e.connections, conns)
	e.ClearCache()
	e.rebuild()
}

// Component returns a registered component by id.
func (e *Engine) Component(id string) (model.Component, bool) {
	c, ok := e.components[id]
	return c, ok
}

// Components returns all registered components sorted by id.
func (e *Engine) Components() []model.Component {
	out := make([]model.Component, 0, len(e.components))
	for _, c := range e.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Connections returns the model's explicit connection records.
func (e *Engine) Connections() []model.Connection {
	out := make([]model.Connection, len(e.connections))
	copy(out, e.connections)
	return out
}

// Len returns the number of registered components.
func (e *Engine) Len() int { return len(e.components) }

// Dependencies exposes the tracker's forward edges for a component.
func (e *Engine) Dependencies(id string) []string {
	return e.tracker.DependenciesOf(id)
}

// Dependents exposes the tracker's reverse edges for a component.
func (e *Engine) Dependents(id string) []string {
	return e.tracker.DependentsOf(id)
}

// Cycles returns the dependency cycles present in the current graph.
func (e *Engine) Cycles() [][]string {
	return e.tracker.Cycles()
}

func (e *Engine) rebuild() {
	if err := e.tracker.Rebuild(e.components, e.connections); err != nil {
		// Graph mirroring failures are internal bugs, not user errors;
		// evaluation still degrades per component.
		e.log.Error("dependency graph rebuild failed", "err", err)
	}
	if cycles := e.tracker.Cycles(); len(cycles) > 0 {
		e.log.Warn("dependency cycles present", "count", len(cycles))
	}
}
