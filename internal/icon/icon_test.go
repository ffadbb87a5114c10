package icon

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writeImage(t *testing.T, name string, encode func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, encode(&buf))
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestLoad_PNG(t *testing.T) {
	img := solid(2, 2, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80})
	path := writeImage(t, "icon.png", func(b *bytes.Buffer) error { return png.Encode(b, img) })

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Width)
	assert.Equal(t, 2, got.Height)
	require.Len(t, got.ARGB, 4)
	assert.Equal(t, uint32(0x80112233), got.ARGB[0])
}

func TestLoad_SniffsContentNotExtension(t *testing.T) {
	img := solid(3, 1, color.NRGBA{R: 0xff, A: 0xff})
	path := writeImage(t, "icon.png", func(b *bytes.Buffer) error { return bmp.Encode(b, img) })

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Width)
	assert.Equal(t, uint32(0xffff0000), got.ARGB[2])
}

func TestLoad_ScalesLargeImages(t *testing.T) {
	img := solid(1024, 512, color.NRGBA{G: 0xff, A: 0xff})
	path := writeImage(t, "big.png", func(b *bytes.Buffer) error { return png.Encode(b, img) })

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MaxSize, got.Width)
	assert.Equal(t, MaxSize/2, got.Height)
	assert.Len(t, got.ARGB, got.Width*got.Height)
}

func TestLoad_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{16, 16, 16, 16},
		{256, 256, 256, 256},
		{512, 512, 256, 256},
		{300, 3000, 25, 256},
		{10000, 1, 256, 1},
	}
	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, MaxSize)
		assert.Equal(t, tt.wantW, w, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "%dx%d", tt.w, tt.h)
	}
}
