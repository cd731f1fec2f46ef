package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/photostore"
)

func TestLocalPhotoStoreSaveAndGet(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir(), "/photos")
	require.NoError(t, err)

	ctx := context.Background()
	imageData := []byte("fake png data")

	key, err := store.Save(ctx, "xamu-field-data/u1", "image/png", bytes.NewReader(imageData))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "xamu-field-data/u1/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	reader, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/png", mimeType)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, imageData, data)
}

func TestLocalPhotoStoreURLAndKey(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir(), "/photos/")
	require.NoError(t, err)

	url := store.URL("a/b.jpg")
	assert.Equal(t, "/photos/a/b.jpg", url)

	key, ok := store.Key(url)
	assert.True(t, ok)
	assert.Equal(t, "a/b.jpg", key)

	_, ok = store.Key("https://res.cloudinary.com/x.jpg")
	assert.False(t, ok)
}

func TestLocalPhotoStoreDelete(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir(), "/photos")
	require.NoError(t, err)
	ctx := context.Background()

	key, err := store.Save(ctx, "clients", "image/jpeg", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))

	_, _, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, photostore.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, key), photostore.ErrNotFound)
}

func TestLocalPhotoStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir(), "/photos")
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
	assert.Error(t, store.Delete(context.Background(), "../outside.jpg"))
}

func TestLocalPhotoStoreFolderIsSanitized(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir(), "/photos")
	require.NoError(t, err)

	key, err := store.Save(context.Background(), "../../escape", "image/jpeg", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "escape/"), key)
}
