package port

import "image"

// ImageLoader интерфейс загрузчика изображений
type ImageLoader interface {
	// Load декодирует файл в изображение
	Load(path string) (image.Image, error)
}

// ImageWriter интерфейс записи изображений
type ImageWriter interface {
	// Save кодирует изображение по расширению пути и записывает на диск
	Save(img image.Image, path string) error
}
