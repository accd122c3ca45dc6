package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("name Bob\njob baker\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("name Alice"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("  \n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	items, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Profile{ID: "a", Text: "name Alice"}, items[0])
	assert.Equal(t, Profile{ID: "b", Text: "name Bob\njob baker"}, items[1])
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.ErrorIs(t, err, ErrNoProfiles)
}

func TestMemoryStoreRandom(t *testing.T) {
	store := NewMemoryStore(Seed())
	store.intn = func(n int) int { return n - 1 }

	got := store.Random()
	assert.Equal(t, "inventor", got.ID)
	assert.Len(t, store.List(), 3)

	assert.Equal(t, Profile{}, NewMemoryStore(nil).Random())
}
