package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temo/internal/domain"
)

// smallest valid PNG header plus IHDR chunk; enough for content sniffing
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

func newDisk(t *testing.T) *Disk {
	t.Helper()
	d, err := NewDisk(t.TempDir(), "http://localhost:8080/media/", nil)
	require.NoError(t, err)
	return d
}

func TestDisk_UploadAndDelete(t *testing.T) {
	d := newDisk(t)
	ctx := context.Background()

	obj, err := d.Upload(ctx, FolderProducts, "kebab.jpeg", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, "product-images/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".png"))
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, "http://localhost:8080/media/"+obj.Key, obj.URL)

	full := filepath.Join(d.Root(), filepath.FromSlash(obj.Key))
	_, err = os.Stat(full)
	require.NoError(t, err)

	key, ok := d.KeyFromURL(obj.URL)
	require.True(t, ok)
	assert.Equal(t, obj.Key, key)

	require.NoError(t, d.Delete(ctx, key))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, d.Delete(ctx, key))
}

func TestDisk_RejectsNonImages(t *testing.T) {
	d := newDisk(t)
	_, err := d.Upload(context.Background(), FolderDrinks, "x.png", strings.NewReader("plain text, not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDisk_RejectsOversize(t *testing.T) {
	d := newDisk(t)
	big := append(append([]byte{}, pngBytes...), make([]byte, MaxUploadBytes)...)
	_, err := d.Upload(context.Background(), FolderProducts, "big.png", bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDisk_RejectsUnknownFolder(t *testing.T) {
	d := newDisk(t)
	_, err := d.Upload(context.Background(), "../etc", "x.png", bytes.NewReader(pngBytes))
	assert.ErrorIs(t, err, ErrUnknownFolder)
}

func TestDisk_KeyFromURL(t *testing.T) {
	d := newDisk(t)
	_, ok := d.KeyFromURL("https://elsewhere.example/product-images/a.png")
	assert.False(t, ok)
	_, ok = d.KeyFromURL("")
	assert.False(t, ok)

	key, ok := d.KeyFromURL("http://localhost:8080/media/../../secret")
	require.True(t, ok)
	assert.Equal(t, "secret", key)
	assert.Error(t, d.Delete(context.Background(), "/"))
}

func TestFolders(t *testing.T) {
	assert.Equal(t, FolderProducts, ProductFolder(domain.KindFood))
	assert.Equal(t, FolderDrinks, ProductFolder(domain.KindDrink))
	assert.Equal(t, FolderCategories, CategoryFolder(domain.KindFood))
	assert.Equal(t, FolderDrinkCategories, CategoryFolder(domain.KindDrink))
}
