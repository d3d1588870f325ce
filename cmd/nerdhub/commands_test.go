package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nerdhub/internal/storage"
	filestorage "nerdhub/internal/storage/filestorage"
)

func TestAttachImage(t *testing.T) {
	ctx := context.Background()

	t.Run("copies image file into assets", func(t *testing.T) {
		assets, err := filestorage.NewLocalFileStorage(t.TempDir())
		require.NoError(t, err)

		src := filepath.Join(t.TempDir(), "mug.png")
		require.NoError(t, os.WriteFile(src, []byte("png"), 0o644))

		var warn bytes.Buffer
		err = attachImage(ctx, assets, "imagens/caneca.png", src, &warn)
		require.NoError(t, err)

		assert.True(t, assets.Exists("imagens/caneca.png"))
		assert.Empty(t, warn.String())
	})

	t.Run("existing asset without image file", func(t *testing.T) {
		dir := t.TempDir()
		assets, err := filestorage.NewLocalFileStorage(dir)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "poster.jpg"), []byte("jpg"), 0o644))

		var warn bytes.Buffer
		require.NoError(t, attachImage(ctx, assets, "poster.jpg", "", &warn))
		assert.Empty(t, warn.String())
	})

	t.Run("missing asset only warns", func(t *testing.T) {
		assets, err := filestorage.NewLocalFileStorage(t.TempDir())
		require.NoError(t, err)

		var warn bytes.Buffer
		require.NoError(t, attachImage(ctx, assets, "imagens/nada.png", "", &warn))
		assert.Contains(t, warn.String(), "imagens/nada.png")
	})

	t.Run("path outside assets is rejected", func(t *testing.T) {
		assets, err := filestorage.NewLocalFileStorage(t.TempDir())
		require.NoError(t, err)

		var warn bytes.Buffer
		err = attachImage(ctx, assets, "../etc/passwd", "", &warn)
		require.ErrorIs(t, err, storage.ErrInvalidPath)
	})

	t.Run("unreadable image file", func(t *testing.T) {
		assets, err := filestorage.NewLocalFileStorage(t.TempDir())
		require.NoError(t, err)

		var warn bytes.Buffer
		err = attachImage(ctx, assets, "x.png", filepath.Join(t.TempDir(), "nope.png"), &warn)
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.False(t, assets.Exists("x.png"))
	})
}
