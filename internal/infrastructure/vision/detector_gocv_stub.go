//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"scan-crop/config"
	"scan-crop/internal/domain/entity"
	"scan-crop/internal/domain/port"
)

// GoCVDetector — заглушка детектора на OpenCV (сборка без тега gocv).
type GoCVDetector struct {
	cfg config.Detection
}

// NewGoCVDetector создаёт детектор-заглушку (без OpenCV).
func NewGoCVDetector(cfg config.Detection) *GoCVDetector {
	return &GoCVDetector{cfg: cfg}
}

// DetectFrames возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) DetectFrames(ctx context.Context, src image.Image) ([]entity.CropResult, error) {
	_ = ctx
	_ = src
	return nil, errors.New("gocv build tag is not enabled")
}

// Проверка реализации интерфейса
var _ port.FrameDetector = (*GoCVDetector)(nil)
