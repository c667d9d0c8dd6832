package modeldoc

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/model"
)

// Report accounts for what an import kept and what it dropped. Dropped
// entries are a caller-visible outcome, not a silent cleanup.
type Report struct {
	Imported int      `json:"imported"`
	Dropped  int      `json:"dropped"`
	Reasons  []string `json:"reasons,omitempty"`
}

func (r *Report) drop(reason string) {
	r.Dropped++
	r.Reasons = append(r.Reasons, reason)
}

// Import converts a document into registrable components and
// connections, applying basic shape validation.
//
// A component is dropped when its id is missing, its type is missing or
// outside the closed kind set, or its properties are not an object.
// Connections referencing nothing are dropped likewise. Connections
// without an id get a generated UUIDv7 so downstream tooling can
// address them.
func Import(doc *Document) ([]model.Component, []model.Connection, Report) {
	var report Report
	components := make([]model.Component, 0, len(doc.Components))

	for i, cd := range doc.Components {
		if cd.ID == "" {
			report.drop(fmt.Sprintf("component %d: missing id", i))
			continue
		}
		if cd.Type == "" {
			report.drop(fmt.Sprintf("component %d (%s): missing type", i, cd.ID))
			continue
		}
		kind, err := model.ParseKind(cd.Type)
		if err != nil {
			report.drop(fmt.Sprintf("component %d (%s): %v", i, cd.ID, err))
			continue
		}
		if cd.Properties == nil {
			report.drop(fmt.Sprintf("component %d (%s): properties must be an object", i, cd.ID))
			continue
		}
		components = append(components, model.Component{
			ID:         cd.ID,
			Kind:       kind,
			Properties: model.Properties(cd.Properties),
			Position:   cd.Position,
		})
		report.Imported++
	}

	connections := make([]model.Connection, 0, len(doc.Connections))
	for i, conn := range doc.Connections {
		if conn.Source == "" || conn.Target == "" {
			report.drop(fmt.Sprintf("connection %d: missing source or target", i))
			continue
		}
		if conn.ID == "" {
			conn.ID = uuid.Must(uuid.NewV7()).String()
		}
		connections = append(connections, conn)
	}

	return components, connections, report
}

// Load replaces an engine's model with the document's contents: the
// cache is cleared, every importable component registered, and the
// connection set installed. Returns the import report.
//
// Register cannot fail here - Import already filtered unknown kinds -
// but a failure would still only skip that component.
func Load(e *engine.Engine, doc *Document) Report {
	components, connections, report := Import(doc)

	for _, existing := range e.Components() {
		e.Remove(existing.ID)
	}
	e.ClearCache()
	for _, c := range components {
		if err := e.Register(c); err != nil {
			report.drop(fmt.Sprintf("component %s: %v", c.ID, err))
			report.Imported--
		}
	}
	e.SetConnections(connections)
	return report
}
