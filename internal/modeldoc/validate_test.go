package modeldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/model"
)

func TestValidate_CleanDocument(t *testing.T) {
	assert.NoError(t, Validate(sampleDocument()))
}

func TestValidate_RejectsUnknownKind(t *testing.T) {
	doc := &Document{
		Components: []ComponentDoc{
			{ID: "x", Type: "blockchain-oracle", Properties: map[string]any{}},
		},
		Metadata: Metadata{Version: FormatVersion},
	}

	err := Validate(doc)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Issues)
}

func TestValidate_RejectsEmptyID(t *testing.T) {
	doc := &Document{
		Components: []ComponentDoc{
			{ID: "", Type: "variable", Properties: map[string]any{"value": 1.0}},
		},
		Metadata: Metadata{Version: FormatVersion},
	}
	assert.Error(t, Validate(doc))
}

func TestValidate_RejectsMissingVersion(t *testing.T) {
	doc := &Document{
		Components: []ComponentDoc{},
		Metadata:   Metadata{},
	}
	assert.Error(t, Validate(doc))
}

func TestValidate_ConnectionNeedsEndpoints(t *testing.T) {
	doc := &Document{
		Components: []ComponentDoc{},
		Connections: []model.Connection{
			{ID: "c", Source: "a", Target: ""},
		},
		Metadata: Metadata{Version: FormatVersion},
	}
	assert.Error(t, Validate(doc))
}
