package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"scan-crop/internal/domain/port"
)

const jpegQuality = 90

// WriteError — ошибка кодирования или записи файла изображения.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FileWriter записывает изображения на диск
type FileWriter struct{}

func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

// Save кодирует изображение по расширению пути и записывает файл.
func (w *FileWriter) Save(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	case ".png":
		err = png.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, nil)
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}

	if err != nil {
		f.Close()
		os.Remove(path)
		return &WriteError{Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// CanEncode сообщает, умеет ли писатель кодировать данное расширение.
// Для webp кодировщика в golang.org/x/image нет, такие файлы читаются,
// но сохраняются в другом формате.
func CanEncode(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp":
		return true
	}
	return false
}

// Проверка реализации интерфейса
var _ port.ImageWriter = (*FileWriter)(nil)
