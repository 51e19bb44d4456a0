package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("writes final file", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "cache")
		store := fs.NewSnapshotStore(dir)

		path, err := store.Save(context.Background(), "rfc-index.xml", []byte("<rfc-index/>"))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "rfc-index.xml"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<rfc-index/>", string(data))
	})

	t.Run("replaces previous snapshot and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewSnapshotStore(dir)
		_, err := store.Save(context.Background(), "rfc-index.txt", []byte("old"))
		require.NoError(t, err)

		_, err = store.Save(context.Background(), "rfc-index.txt", []byte("new"))
		require.NoError(t, err)

		data, err := store.Load("rfc-index.txt")
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "rfc-index.txt", entries[0].Name())
	})

	t.Run("rejects names with separators", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())

		_, err := store.Save(context.Background(), "../escape", []byte("x"))

		assert.Equal(t, rfcli.EINVALID, rfcli.ErrorCode(err))
	})

	t.Run("honors canceled context", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Save(ctx, "rfc-index.xml", []byte("x"))

		assert.Equal(t, rfcli.ECANCELED, rfcli.ErrorCode(err))
	})
}

func TestSnapshotStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing snapshot is not found", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(t.TempDir())

		_, err := store.Load("rfc-index.xml")

		assert.Equal(t, rfcli.ENOTFOUND, rfcli.ErrorCode(err))
	})

	t.Run("missing directory is not found", func(t *testing.T) {
		t.Parallel()

		store := fs.NewSnapshotStore(filepath.Join(t.TempDir(), "nope"))

		_, err := store.ModTime("rfc-index.xml")

		assert.Equal(t, rfcli.ENOTFOUND, rfcli.ErrorCode(err))
	})
}

func TestSnapshotStore_Abort(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewSnapshotStore(dir)
	_, err := store.Save(context.Background(), "rfc-index.xml", []byte("keep"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rfc-index.xml.1234.tmp"), []byte("partial"), 0644))

	require.NoError(t, store.Abort())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rfc-index.xml", entries[0].Name())
}
