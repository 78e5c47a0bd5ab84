package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steemit/yatube/pkg/config"
)

func TestLocalStore_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir(), "http://testserver/media/")
	require.NoError(t, err)

	name := ImageName("png")
	path, err := store.Save(ctx, name, []byte("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, name, path)

	content, err := os.ReadFile(filepath.Join(store.Root(), filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	assert.Equal(t, "http://testserver/media/"+path, store.URL(path))

	require.NoError(t, store.Delete(ctx, path))
	_, err = os.Stat(filepath.Join(store.Root(), filepath.FromSlash(path)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is not an error
	assert.NoError(t, store.Delete(ctx, path))
}

func TestLocalStore_RejectsEscape(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media/")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../outside.png", []byte("x"), "image/png")
	assert.Error(t, err)
}

func TestImageName(t *testing.T) {
	a, b := ImageName("jpeg"), ImageName("jpeg")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, ImageDir+"/"))
	assert.True(t, strings.HasSuffix(a, ".jpeg"))
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://x/media/posts/a.png", joinURL("http://x/media", "posts/a.png"))
	assert.Equal(t, "http://x/media/posts/a.png", joinURL("http://x/media/", "/posts/a.png"))
	assert.Equal(t, "", joinURL("http://x/media/", ""))
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)
}
