package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/catalog/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	t.Parallel()

	t.Run("commit moves content into place", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "export", "products.csv")

		f, err := fs.Create(path)
		require.NoError(t, err)
		_, err = f.Write([]byte("id,sku\n1,SEP-001\n"))
		require.NoError(t, err)

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "destination should not exist before commit")

		require.NoError(t, f.Commit())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "id,sku\n1,SEP-001\n", string(data))
		assert.Equal(t, []string{"products.csv"}, dirNames(t, filepath.Dir(path)))
	})

	t.Run("commit replaces an existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "categories.csv")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		f, err := fs.Create(path)
		require.NoError(t, err)
		_, err = f.Write([]byte("new"))
		require.NoError(t, err)
		require.NoError(t, f.Commit())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("abort keeps the previous file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "categories.csv")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		f, err := fs.Create(path)
		require.NoError(t, err)
		_, err = f.Write([]byte("partial"))
		require.NoError(t, err)
		require.NoError(t, f.Abort())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))
		assert.Equal(t, []string{"categories.csv"}, dirNames(t, dir))
	})

	t.Run("abort after commit is a no-op", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "stats.csv")
		f, err := fs.Create(path)
		require.NoError(t, err)
		require.NoError(t, f.Commit())
		require.NoError(t, f.Abort())

		_, err = os.Stat(path)
		assert.NoError(t, err)
		assert.Equal(t, path, f.Path())
	})
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
