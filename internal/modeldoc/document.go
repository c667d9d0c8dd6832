package modeldoc

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/model"
)

// FormatVersion is the exchange format version written by Export.
const FormatVersion = "1"

// Document is the serialized model exchange format.
type Document struct {
	Components  []ComponentDoc     `json:"components" yaml:"components"`
	Connections []model.Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
	Metadata    Metadata           `json:"metadata" yaml:"metadata"`
}

// ComponentDoc is a component as it appears on the wire. Fields are
// kept loose (raw strings, untyped bag) so shape validation can reject
// entries individually instead of failing the whole decode.
type ComponentDoc struct {
	ID         string         `json:"id" yaml:"id"`
	Type       string         `json:"type" yaml:"type"`
	Properties map[string]any `json:"properties" yaml:"properties"`
	Position   model.Position `json:"position" yaml:"position"`
}

// Metadata carries document provenance.
type Metadata struct {
	Version   string    `json:"version" yaml:"version"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty"`
}

// DecodeJSON reads a JSON model document.
func DecodeJSON(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("modeldoc: decode json: %w", err)
	}
	return &doc, nil
}

// DecodeYAML reads a YAML model document. The YAML form is a
// convenience for hand-written models; the canonical exchange format is
// JSON.
func DecodeYAML(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("modeldoc: decode yaml: %w", err)
	}
	return &doc, nil
}

// EncodeJSON writes the document as indented JSON.
func (d *Document) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("modeldoc: encode json: %w", err)
	}
	return nil
}

// MarshalJSONBytes returns the document as indented JSON bytes.
func (d *Document) MarshalJSONBytes() ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("modeldoc: marshal: %w", err)
	}
	return out, nil
}
