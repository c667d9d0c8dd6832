package modeldoc

import (
	"time"

	"github.com/roach88/tally/internal/engine"
)

// Export snapshots an engine's model into a document. Properties are
// cloned so later engine mutations don't reach the document.
func Export(e *engine.Engine, name string) *Document {
	doc := &Document{
		Components: []ComponentDoc{},
		Metadata: Metadata{
			Version:   FormatVersion,
			Name:      name,
			UpdatedAt: time.Now().UTC(),
		},
	}
	for _, c := range e.Components() {
		doc.Components = append(doc.Components, ComponentDoc{
			ID:         c.ID,
			Type:       string(c.Kind),
			Properties: map[string]any(c.Properties.Clone()),
			Position:   c.Position,
		})
	}
	doc.Connections = e.Connections()
	return doc
}
