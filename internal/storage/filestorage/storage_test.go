package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rootstorage "nerdhub/internal/storage"
	storage "nerdhub/internal/storage/filestorage"
)

func setupFileStorage(t *testing.T) *storage.LocalFileStorage {
	t.Helper()

	fs, err := storage.NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	return fs
}

func TestLocalFileStorage_SaveOpen(t *testing.T) {
	ctx := context.Background()
	fs := setupFileStorage(t)

	rel := "imagens/imagem_produtos_home/caneca.jpg"

	size, err := fs.Save(ctx, rel, strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.EqualValues(t, len("jpeg bytes"), size)
	assert.True(t, fs.Exists(rel))

	f, err := fs.Open(rel)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	_, err = os.Stat(filepath.Join(fs.BaseDir(), "imagens", "imagem_produtos_home", "caneca.jpg"))
	assert.NoError(t, err)
}

func TestLocalFileStorage_Resolve(t *testing.T) {
	fs := setupFileStorage(t)

	full, err := fs.Resolve("imagens/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fs.BaseDir(), "imagens", "x.jpg"), full)

	for _, bad := range []string{"", "../etc/passwd", "imagens/../../x", "/etc/passwd"} {
		_, err := fs.Resolve(bad)
		assert.ErrorIs(t, err, rootstorage.ErrInvalidPath, bad)
	}
}

func TestLocalFileStorage_Missing(t *testing.T) {
	fs := setupFileStorage(t)

	assert.False(t, fs.Exists("imagens/nada.jpg"))
	assert.False(t, fs.Exists("imagens"))

	_, err := fs.Open("imagens/nada.jpg")
	assert.ErrorIs(t, err, rootstorage.ErrFileNotFound)
}

func TestLocalFileStorage_SaveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs := setupFileStorage(t)

	_, err := fs.Save(ctx, "imagens/x.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, fs.Exists("imagens/x.jpg"))
}
