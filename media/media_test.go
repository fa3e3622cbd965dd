package media

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return &buf
}

func TestStoreRoundTrip(t *testing.T) {
	require := require.New(t)

	store := NewStore(t.TempDir(), nil)

	name, err := store.SaveOriginal(encodePNG(t, 1600, 900), "png")
	require.NoError(err)
	require.NotEmpty(name)

	require.NoError(store.Derive(name))

	for variant, width := range map[string]int{"thumb": 150, "large": 800} {
		f, err := os.Open(store.Path(variantName(name, variant)))
		require.NoError(err)
		img, format, err := image.Decode(f)
		f.Close()
		require.NoError(err)
		require.Equal("png", format)
		require.Equal(width, img.Bounds().Dx())
	}

	// original untouched
	f, err := os.Open(store.Path(name))
	require.NoError(err)
	img, _, err := image.Decode(f)
	f.Close()
	require.NoError(err)
	require.Equal(1600, img.Bounds().Dx())
}

func TestDeriveRejectsGarbage(t *testing.T) {
	require := require.New(t)

	store := NewStore(t.TempDir(), nil)
	name, err := store.SaveOriginal(bytes.NewReader([]byte("not an image")), "jpg")
	require.NoError(err)
	require.Error(store.Derive(name))
}

func TestVariantName(t *testing.T) {
	require := require.New(t)
	require.Equal("abc_thumb.png", variantName("abc.png", "thumb"))
	require.Equal("abc_large.jpg", variantName("abc.jpg", "large"))
}
