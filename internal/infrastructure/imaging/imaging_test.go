package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")

	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	src.SetRGBA(3, 2, color.RGBA{R: 200, G: 10, B: 10, A: 255})
	writePNG(t, path, src)

	img, err := NewFileLoader().Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, img.Bounds().Dx())
	require.Equal(t, 6, img.Bounds().Dy())

	r, _, _, _ := img.At(3, 2).RGBA()
	require.Equal(t, uint32(200), r>>8)
}

func TestFileLoader_LoadMissingFile(t *testing.T) {
	_, err := NewFileLoader().Load(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	require.True(t, os.IsNotExist(de.Err))
}

func TestFileLoader_LoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := NewFileLoader().Load(path)
	require.Error(t, err)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, path, de.Path)
}

func TestIsImageFile(t *testing.T) {
	require.True(t, IsImageFile("scan.jpg"))
	require.True(t, IsImageFile("SCAN.JPEG"))
	require.True(t, IsImageFile("roll/scan.tiff"))
	require.True(t, IsImageFile("scan.webp"))
	require.False(t, IsImageFile("scan.gif"))
	require.False(t, IsImageFile("notes.txt"))
	require.False(t, IsImageFile("scan"))
}

func TestFileWriter_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), A: 255})
		}
	}

	for _, ext := range []string{".png", ".bmp", ".tif"} {
		path := filepath.Join(dir, "out"+ext)
		require.NoError(t, NewFileWriter().Save(src, path))

		img, err := NewFileLoader().Load(path)
		require.NoError(t, err)
		require.Equal(t, src.Bounds(), img.Bounds())
	}
}

func TestFileWriter_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")

	err := NewFileWriter().Save(image.NewRGBA(image.Rect(0, 0, 4, 4)), path)
	require.Error(t, err)

	var we *WriteError
	require.True(t, errors.As(err, &we))

	// Недописанный файл не должен остаться на диске
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestCanEncode(t *testing.T) {
	require.True(t, CanEncode(".jpg"))
	require.True(t, CanEncode(".PNG"))
	require.True(t, CanEncode(".tiff"))
	require.False(t, CanEncode(".webp"))
	require.False(t, CanEncode(".gif"))
}
