package entity

import "image"

// CropStatus — итоговый статус обработки одного кадра.
type CropStatus string

const (
	StatusSuccess       CropStatus = "success"        // кадр найден и вырезан уверенно
	StatusLowConfidence CropStatus = "low_confidence" // кадр вырезан, но требует проверки
	StatusFailed        CropStatus = "failed"         // кадр найден, но сохранить не удалось
)

// Polarity — полярность скана плёнки.
type Polarity string

const (
	PolarityNegative Polarity = "negative" // светлая подложка, тёмный кадр
	PolarityPositive Polarity = "positive" // тёмная подложка (слайд/позитив)
)

// CropResult хранит итог обработки одного кадра: вырезанное изображение
// и геометрию, по которой оно получено. После создания не изменяется.
type CropResult struct {
	Image      *image.RGBA // вырезанный и выровненный кадр
	Frame      FrameRect   // геометрия кадра на исходном скане
	Rotation   int         // применённый грубый поворот: 0 или 90 градусов
	Status     CropStatus
	Confidence float64
	Polarity   Polarity
}
