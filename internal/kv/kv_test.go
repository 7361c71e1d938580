package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreContract(t *testing.T, store Store) {
	t.Helper()

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("alpha", []byte("one")))
	got, err := store.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)

	// Overwrite replaces, not appends.
	require.NoError(t, store.Set("alpha", []byte("two")))
	got, err = store.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	require.NoError(t, store.Delete("alpha"))
	_, err = store.Get("alpha")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete("alpha"))
}

func TestFileStore_Contract(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	testStoreContract(t, store)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("k", []byte("v")))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("snapshot", []byte(`{"habits":[]}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "snapshot.json", entries[0].Name())
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ritual.db"))
	require.NoError(t, err)
	defer store.Close()

	testStoreContract(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ritual.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
