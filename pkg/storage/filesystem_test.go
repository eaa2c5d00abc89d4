package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

func TestArtifactStoreSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewArtifactStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "p-1", models.ArtifactRaw, map[string]interface{}{"title": "Fractions"}))

	var got map[string]interface{}
	require.NoError(t, store.Load(ctx, "p-1", models.ArtifactRaw, &got))
	assert.Equal(t, "Fractions", got["title"])

	_, err = os.Stat(filepath.Join(dir, "product_p-1", "raw.json"))
	assert.NoError(t, err)
}

func TestArtifactStoreOverwrites(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "p-2", models.ArtifactQC, map[string]string{"verdict": "FAIL"}))
	require.NoError(t, store.Save(ctx, "p-2", models.ArtifactQC, map[string]string{"verdict": "PASS"}))

	var got map[string]string
	require.NoError(t, store.Load(ctx, "p-2", models.ArtifactQC, &got))
	assert.Equal(t, map[string]string{"verdict": "PASS"}, got)

	entries, err := os.ReadDir(filepath.Dir(store.Path("p-2", models.ArtifactQC)))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestArtifactStoreLoadMissing(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	var got map[string]interface{}
	err = store.Load(context.Background(), "nope", models.ArtifactMetadata, &got)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestArtifactStoreRejectsTraversal(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Save(context.Background(), "../etc", models.ArtifactRaw, map[string]int{}))
	assert.Error(t, store.Save(context.Background(), "p-3", models.ArtifactKind("other"), map[string]int{}))
}
