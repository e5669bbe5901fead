package port

import (
	"context"
	"errors"
	"image"

	"scan-crop/internal/domain/entity"
)

// ErrInvalidImage возвращается, когда на вход подано пустое изображение.
var ErrInvalidImage = errors.New("invalid image")

// FrameDetector интерфейс детектора кадров плёнки
type FrameDetector interface {
	// DetectFrames находит кадры на скане и возвращает их вырезанными.
	// Пустой срез означает "кадры не найдены" и ошибкой не является.
	DetectFrames(ctx context.Context, img image.Image) ([]entity.CropResult, error)
}
