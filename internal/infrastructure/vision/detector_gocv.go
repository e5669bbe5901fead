//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"scan-crop/config"
	"scan-crop/internal/domain/entity"
	"scan-crop/internal/domain/port"
)

// Шаг и потолок перебора порога яркости.
const (
	thresholdSweepStep = 5
	thresholdSweepMax  = 240
	maxCoverage        = 0.98
)

// GoCVDetector — детектор кадров на OpenCV. Перебирает пороги яркости и
// берёт медиану устойчивых прямоугольников: находит один, самый крупный
// кадр на скане.
type GoCVDetector struct {
	cfg config.Detection
}

// NewGoCVDetector создаёт детектор на OpenCV.
func NewGoCVDetector(cfg config.Detection) *GoCVDetector {
	return &GoCVDetector{cfg: cfg}
}

type rotRect struct {
	cx, cy float64
	w, h   float64
	angle  float64
}

// DetectFrames находит кадр на скане перебором порогов бинаризации.
func (d *GoCVDetector) DetectFrames(ctx context.Context, src image.Image) ([]entity.CropResult, error) {
	_ = ctx

	if src == nil {
		return nil, fmt.Errorf("%w: nil image", port.ErrInvalidImage)
	}
	if src.Bounds().Dx() <= 0 || src.Bounds().Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero-size image", port.ErrInvalidImage)
	}

	mat, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	polarity := detectPolarity(mat)
	workMat := mat.Clone()
	defer workMat.Close()

	// Позитив инвертируем: дальше логика единая, негативная.
	if polarity == entity.PolarityPositive {
		gocv.BitwiseNot(workMat, &workMat)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(workMat, &gray, gocv.ColorBGRToGray)

	filtered := gocv.NewMat()
	defer filtered.Close()
	gocv.BilateralFilter(gray, &filtered, 11, 17, 17)

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(filtered, &equalized)

	height, width := workMat.Rows(), workMat.Cols()
	maxArea := float64(height) * maxCoverage * float64(width) * maxCoverage
	minCaptureArea := maxArea * 0.65

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(5, 5))
	defer kernel.Close()

	var sweep []rotRect
	var bestRect *rotRect
	bestArea := 0.0

	for thr := 0; thr < thresholdSweepMax; thr += thresholdSweepStep {
		binary := gocv.NewMat()
		gocv.Threshold(equalized, &binary, float32(thr), 255, gocv.ThresholdBinaryInv)

		dilated := gocv.NewMat()
		gocv.Dilate(binary, &dilated, kernel)
		binary.Close()

		eroded := gocv.NewMat()
		gocv.Erode(dilated, &eroded, kernel)
		dilated.Close()

		rect, area := largestContourRect(eroded)
		eroded.Close()

		if rect != nil && area > bestArea {
			bestArea = area
			bestRect = rect
		}
		if rect != nil && area >= maxArea {
			break
		}
		if rect != nil && area >= minCaptureArea {
			sweep = append(sweep, *rect)
		}
	}

	chosen := medianRect(sweep)
	if chosen == nil {
		chosen = bestRect
	}
	if chosen == nil {
		return nil, nil
	}

	frame, ok := d.toFrame(*chosen, width, height)
	if !ok {
		return nil, nil
	}

	rotation := resolveRotation(frame.Corners, d.cfg.ExpectedAspect)

	cropQ := frame.Corners
	if d.cfg.InsetFraction > 0 {
		cropQ = cropQ.Inset(d.cfg.InsetFraction)
	}

	out := cropFrame(toRGBA(src), cropQ, frame.Angle)
	if rotation == 90 {
		out = rotate90(out)
	}

	status := entity.StatusSuccess
	if frame.Source.Confidence < d.cfg.ConfidenceThreshold {
		status = entity.StatusLowConfidence
	}

	return []entity.CropResult{{
		Image:      out,
		Frame:      frame,
		Rotation:   rotation,
		Status:     status,
		Confidence: frame.Source.Confidence,
		Polarity:   polarity,
	}}, nil
}

// toFrame переводит повёрнутый прямоугольник OpenCV в доменную геометрию.
func (d *GoCVDetector) toFrame(r rotRect, imgW, imgH int) (entity.FrameRect, bool) {
	angle := r.angle
	w, h := r.w, r.h
	if angle < -45 {
		w, h = h, w
		angle += 90
	}

	w, h = correctAspect(w, h, d.cfg.ExpectedAspect, d.cfg.MaxAspectDelta)
	corners := rotatedRectCorners(entity.Point{X: r.cx, Y: r.cy}, w, h, angle)

	minArea := d.cfg.MinAreaFraction * float64(imgW) * float64(imgH)
	if !corners.IsConvex() || corners.Area() < minArea {
		return entity.FrameRect{}, false
	}

	box := corners.Bounds()
	boxArea := float64(box.Dx() * box.Dy())
	conf := 0.0
	if boxArea > 0 {
		conf = corners.Area() / boxArea
	}

	return entity.FrameRect{
		Corners: corners,
		Angle:   angle,
		Source: entity.Candidate{
			Box:        box,
			Pixels:     int(corners.Area()),
			Confidence: conf,
		},
	}, true
}

// detectPolarity оценивает полярность по средней яркости краевых полос.
func detectPolarity(mat gocv.Mat) entity.Polarity {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	h, w := gray.Rows(), gray.Cols()
	band := int(math.Max(5, float64(minInt(h, w))*0.02))

	regions := []image.Rectangle{
		image.Rect(0, 0, w, band),
		image.Rect(0, h-band, w, h),
		image.Rect(0, 0, band, h),
		image.Rect(w-band, 0, w, h),
	}

	mean := 0.0
	for _, r := range regions {
		roi := gray.Region(r)
		mean += gocv.Mean(roi).Val1
		roi.Close()
	}
	mean /= float64(len(regions))

	if mean >= 150 {
		return entity.PolarityNegative
	}
	return entity.PolarityPositive
}

// largestContourRect возвращает минимальный повёрнутый прямоугольник
// самого крупного контура маски.
func largestContourRect(binary gocv.Mat) (*rotRect, float64) {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var largest *rotRect
	largestArea := 0.0

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area > largestArea {
			largestArea = area
			rr := gocv.MinAreaRect(contour)
			largest = &rotRect{
				cx:    float64(rr.Center.X),
				cy:    float64(rr.Center.Y),
				w:     float64(rr.Width),
				h:     float64(rr.Height),
				angle: rr.Angle,
			}
		}
		contour.Close()
	}

	return largest, largestArea
}

// medianRect усредняет устойчивые результаты перебора покомпонентной медианой.
func medianRect(rects []rotRect) *rotRect {
	if len(rects) == 0 {
		return nil
	}

	normalized := make([]rotRect, len(rects))
	for i, r := range rects {
		if r.angle < -45 {
			r.w, r.h = r.h, r.w
			r.angle += 90
		}
		normalized[i] = r
	}

	pick := func(get func(rotRect) float64) float64 {
		vals := make([]float64, len(normalized))
		for i, r := range normalized {
			vals[i] = get(r)
		}
		sort.Float64s(vals)
		n := len(vals)
		if n%2 == 0 {
			return (vals[n/2-1] + vals[n/2]) / 2
		}
		return vals[n/2]
	}

	return &rotRect{
		cx:    pick(func(r rotRect) float64 { return r.cx }),
		cy:    pick(func(r rotRect) float64 { return r.cy }),
		w:     pick(func(r rotRect) float64 { return r.w }),
		h:     pick(func(r rotRect) float64 { return r.h }),
		angle: pick(func(r rotRect) float64 { return r.angle }),
	}
}

// Проверка реализации интерфейса
var _ port.FrameDetector = (*GoCVDetector)(nil)
