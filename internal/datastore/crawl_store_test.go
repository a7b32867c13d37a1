package datastore

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *CrawlStore {
	t.Helper()
	store, err := OpenCrawlStore(filepath.Join(t.TempDir(), "crawl_state.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCrawlStoreMarkAndCheck(t *testing.T) {
	store := openTestStore(t)

	url := "https://www.printables.com/model/42-widget"

	done, err := store.IsProcessed(url)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, store.MarkProcessed(url, "42", "run-1", "/out/Gadgets/42_Widget"))

	done, err = store.IsProcessed(url)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestCrawlStoreRemarkUpdates(t *testing.T) {
	store := openTestStore(t)

	url := "https://www.printables.com/model/42-widget"
	require.NoError(t, store.MarkProcessed(url, "42", "run-1", "/out/a"))
	require.NoError(t, store.MarkProcessed(url, "42", "run-2", "/out/b"))

	count, err := store.ProcessedCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCrawlStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl_state.db")

	store, err := OpenCrawlStore(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.MarkProcessed("https://example.com/model/1", "1", "run-1", "/out/1"))
	require.NoError(t, store.Close())

	reopened, err := OpenCrawlStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	done, err := reopened.IsProcessed("https://example.com/model/1")
	require.NoError(t, err)
	assert.True(t, done)

	count, err := reopened.ProcessedCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
