package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/modeldoc"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testDocument(name string) *modeldoc.Document {
	return &modeldoc.Document{
		Components: []modeldoc.ComponentDoc{
			{
				ID:         "v",
				Type:       "variable",
				Properties: map[string]any{"value": 42.0},
			},
		},
		Metadata: modeldoc.Metadata{Version: modeldoc.FormatVersion, Name: name},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveModel(ctx, "q3-plan", testDocument("q3-plan")))

	doc, err := s.LoadModel(ctx, "q3-plan")
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)
	assert.Equal(t, "v", doc.Components[0].ID)
	assert.Equal(t, 42.0, doc.Components[0].Properties["value"])
}

func TestStore_SaveIsUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveModel(ctx, "plan", testDocument("plan")))

	updated := testDocument("plan")
	updated.Components[0].Properties["value"] = 99.0
	require.NoError(t, s.SaveModel(ctx, "plan", updated))

	doc, err := s.LoadModel(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, 99.0, doc.Components[0].Properties["value"])

	infos, err := s.ListModels(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestStore_LoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadModel(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestStore_ListOrdersByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.SaveModel(ctx, name, testDocument(name)))
	}

	infos, err := s.ListModels(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "mid", infos[1].Name)
	assert.Equal(t, "zeta", infos[2].Name)
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveModel(ctx, "gone", testDocument("gone")))

	require.NoError(t, s.DeleteModel(ctx, "gone"))
	_, err := s.LoadModel(ctx, "gone")
	assert.ErrorIs(t, err, ErrModelNotFound)

	assert.ErrorIs(t, s.DeleteModel(ctx, "gone"), ErrModelNotFound)
}

func TestStore_SaveRequiresName(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.SaveModel(context.Background(), "", testDocument("")))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.SaveModel(context.Background(), "m", testDocument("m")))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	_, err = s2.LoadModel(context.Background(), "m")
	assert.NoError(t, err)
}
