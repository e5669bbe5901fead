package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Регистрируем декодеры форматов, встречающихся у плёночных сканеров.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"scan-crop/internal/domain/port"
)

// DecodeError — ошибка чтения или декодирования файла изображения.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FileLoader загружает изображения с диска
type FileLoader struct{}

func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load декодирует файл в изображение.
func (l *FileLoader) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	return img, nil
}

// IsImageFile сообщает, похож ли путь на поддерживаемый файл изображения.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp", ".webp":
		return true
	}
	return false
}

// Проверка реализации интерфейса
var _ port.ImageLoader = (*FileLoader)(nil)
