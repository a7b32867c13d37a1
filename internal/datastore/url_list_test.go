package datastore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLListStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_urls.txt")
	store := NewURLListStore(zerolog.Nop())

	urls := []string{
		"https://www.printables.com/model/111-first",
		"https://www.printables.com/model/222-second",
	}
	require.NoError(t, store.Save(path, urls))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, urls, loaded)
}

func TestURLListStoreLoadSkipsBlanksAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_urls.txt")
	content := "# collected 2025-01-01\n\nhttps://example.com/model/1\n   \nhttps://example.com/model/2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store := NewURLListStore(zerolog.Nop())
	loaded, err := store.Load(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/model/1", "https://example.com/model/2"}, loaded)
}

func TestURLListStoreLoadMissingFile(t *testing.T) {
	store := NewURLListStore(zerolog.Nop())

	loaded, err := store.Load(filepath.Join(t.TempDir(), "absent.txt"))

	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestURLListStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_urls.txt")
	store := NewURLListStore(zerolog.Nop())

	require.NoError(t, store.Save(path, []string{"https://example.com/model/1"}))
	require.NoError(t, store.Save(path, []string{"https://example.com/model/2"}))

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/model/2"}, loaded)
}
