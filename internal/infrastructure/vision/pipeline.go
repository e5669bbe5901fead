package vision

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/up-zero/gotool/imageutil"

	"scan-crop/config"
	"scan-crop/internal/domain/entity"
	"scan-crop/internal/domain/port"
)

// Pipeline — чистая Go-реализация детектора кадров. Не хранит состояния
// между вызовами: каждый вызов DetectFrames работает только со своими
// промежуточными данными, поэтому независимые сканы можно обрабатывать
// параллельно.
type Pipeline struct {
	cfg config.Detection
}

// NewPipeline создаёт конвейер с копией параметров детекции.
func NewPipeline(cfg config.Detection) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// DetectFrames находит кадры плёнки на скане и возвращает их вырезанными
// и выровненными. Пустой срез означает "кадры не найдены".
func (p *Pipeline) DetectFrames(ctx context.Context, src image.Image) ([]entity.CropResult, error) {
	_ = ctx

	if src == nil {
		return nil, fmt.Errorf("%w: nil image", port.ErrInvalidImage)
	}
	origW, origH := src.Bounds().Dx(), src.Bounds().Dy()
	if origW <= 0 || origH <= 0 {
		return nil, fmt.Errorf("%w: zero-size image %dx%d", port.ErrInvalidImage, origW, origH)
	}

	// Детекция идёт на уменьшенной копии: пороги стабильнее, а геометрия
	// потом масштабируется обратно к полному разрешению.
	var work image.Image = src
	if p.cfg.MaxWorkingSide > 0 && maxInt(origW, origH) > p.cfg.MaxWorkingSide {
		scale := float64(p.cfg.MaxWorkingSide) / float64(maxInt(origW, origH))
		newW := maxInt(1, int(math.Round(float64(origW)*scale)))
		newH := maxInt(1, int(math.Round(float64(origH)*scale)))
		work = imageutil.Resize(src, newW, newH)
	}
	workW, workH := work.Bounds().Dx(), work.Bounds().Dy()
	sx := float64(origW) / float64(workW)
	sy := float64(origH) / float64(workH)

	gray := imageutil.Grayscale(work)
	em, polarity := buildEdgeMap(gray)
	mask := thresholdMask(em, p.cfg.ThresholdPercentile)
	comps := findComponents(mask, p.cfg)

	srcRGBA := toRGBA(src)
	results := make([]entity.CropResult, 0, len(comps))

	for _, comp := range comps {
		frame, ok := refine(comp, p.cfg, workW, workH)
		if !ok {
			continue
		}

		frame.Corners = frame.Corners.Scale(sx, sy)
		frame.Source.Box = scaleRect(frame.Source.Box, sx, sy)

		rotation := resolveRotation(frame.Corners, p.cfg.ExpectedAspect)

		cropQ := frame.Corners
		if p.cfg.InsetFraction > 0 {
			cropQ = cropQ.Inset(p.cfg.InsetFraction)
		}

		out := cropFrame(srcRGBA, cropQ, frame.Angle)
		if rotation == 90 {
			out = rotate90(out)
		}

		status := entity.StatusSuccess
		if frame.Source.Confidence < p.cfg.ConfidenceThreshold {
			status = entity.StatusLowConfidence
		}

		results = append(results, entity.CropResult{
			Image:      out,
			Frame:      frame,
			Rotation:   rotation,
			Status:     status,
			Confidence: frame.Source.Confidence,
			Polarity:   polarity,
		})
	}

	return results, nil
}

func scaleRect(r image.Rectangle, sx, sy float64) image.Rectangle {
	return image.Rect(
		int(math.Round(float64(r.Min.X)*sx)),
		int(math.Round(float64(r.Min.Y)*sy)),
		int(math.Round(float64(r.Max.X)*sx)),
		int(math.Round(float64(r.Max.Y)*sy)),
	)
}

// Проверка реализации интерфейса
var _ port.FrameDetector = (*Pipeline)(nil)
