package modeldoc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/model"
)

func sampleDocument() *Document {
	return &Document{
		Components: []ComponentDoc{
			{
				ID:   "rev",
				Type: "revenue-stream",
				Properties: map[string]any{
					"unitPrice": 100.0,
					"quantity":  10.0,
					"periods":   12.0,
				},
				Position: model.Position{X: 10, Y: 20},
			},
			{
				ID:   "costs",
				Type: "cost-center",
				Properties: map[string]any{
					"monthlyCost": 500.0,
					"periods":     12.0,
				},
			},
			{
				ID:         "net",
				Type:       "formula",
				Properties: map[string]any{"formula": "$rev - $costs"},
			},
		},
		Metadata: Metadata{Version: FormatVersion, Name: "demo"},
	}
}

func TestImport_CleanDocument(t *testing.T) {
	components, connections, report := Import(sampleDocument())

	assert.Len(t, components, 3)
	assert.Empty(t, connections)
	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 0, report.Dropped)
}

func TestImport_DropsMalformedEntries(t *testing.T) {
	doc := &Document{
		Components: []ComponentDoc{
			{ID: "", Type: "variable", Properties: map[string]any{"value": 1.0}},
			{ID: "no-type", Type: "", Properties: map[string]any{}},
			{ID: "alien", Type: "blockchain-oracle", Properties: map[string]any{}},
			{ID: "no-props", Type: "variable", Properties: nil},
			{ID: "ok", Type: "variable", Properties: map[string]any{"value": 2.0}},
		},
		Metadata: Metadata{Version: FormatVersion},
	}

	components, _, report := Import(doc)

	require.Len(t, components, 1)
	assert.Equal(t, "ok", components[0].ID)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 4, report.Dropped, "each malformed entry is counted, not silently ignored")
	assert.Len(t, report.Reasons, 4)
}

func TestImport_ConnectionsGetGeneratedIDs(t *testing.T) {
	doc := &Document{
		Connections: []model.Connection{
			{Source: "a", Target: "b"},
			{ID: "keep-me", Source: "b", Target: "c"},
			{Source: "", Target: "c"},
		},
		Metadata: Metadata{Version: FormatVersion},
	}

	_, connections, report := Import(doc)

	require.Len(t, connections, 2)
	assert.NotEmpty(t, connections[0].ID, "missing connection id is generated")
	assert.Equal(t, "keep-me", connections[1].ID)
	assert.Equal(t, 1, report.Dropped)
}

func TestLoad_ReplacesEngineModel(t *testing.T) {
	e := engine.New()
	require.NoError(t, e.Register(model.Component{
		ID:         "stale",
		Kind:       model.KindVariable,
		Properties: model.Properties{"value": 1.0},
	}))

	report := Load(e, sampleDocument())

	assert.Equal(t, 3, report.Imported)
	_, ok := e.Component("stale")
	assert.False(t, ok, "previous model is fully replaced")

	results, summary := e.CalculateAll()
	assert.InDelta(t, 6000.0, results["net"].Value, 1e-9)
	assert.InDelta(t, 12000.0, summary.TotalRevenue, 1e-9)
}

func TestRoundTrip_ExportImportEquivalentSummary(t *testing.T) {
	e := engine.New()
	require.Equal(t, 0, Load(e, sampleDocument()).Dropped)
	_, before := e.CalculateAll()

	doc := Export(e, "demo")
	var buf bytes.Buffer
	require.NoError(t, doc.EncodeJSON(&buf))

	decoded, err := DecodeJSON(&buf)
	require.NoError(t, err)

	e2 := engine.New()
	report := Load(e2, decoded)
	assert.Equal(t, 0, report.Dropped)

	_, after := e2.CalculateAll()
	assert.InDelta(t, before.TotalRevenue, after.TotalRevenue, 1e-9)
	assert.InDelta(t, before.TotalCosts, after.TotalCosts, 1e-9)
	assert.InDelta(t, before.NetValue, after.NetValue, 1e-9)
	assert.InDelta(t, before.ROI, after.ROI, 1e-9)
	assert.InDelta(t, before.Confidence, after.Confidence, 1e-9)
	assert.InDelta(t, before.NPV, after.NPV, 1e-9)
}

func TestDecodeYAML(t *testing.T) {
	src := `
components:
  - id: v
    type: variable
    properties:
      value: 5
  - id: double
    type: formula
    properties:
      formula: "$v * 2"
metadata:
  version: "1"
`
	doc, err := DecodeYAML(strings.NewReader(src))
	require.NoError(t, err)

	e := engine.New()
	report := Load(e, doc)
	assert.Equal(t, 0, report.Dropped)
	assert.InDelta(t, 10.0, e.Calculate("double").Value, 1e-9)
}
