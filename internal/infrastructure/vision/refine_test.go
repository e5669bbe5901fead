package vision

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"scan-crop/internal/domain/entity"
)

// rasterizeRotatedRect возвращает пиксели, чьи центры лежат внутри
// прямоугольника с заданным центром, размером и наклоном.
func rasterizeRotatedRect(cx, cy, w, h, angle float64) component {
	var points []image.Point
	minX, minY := math.MaxInt32, math.MaxInt32
	maxX, maxY := 0, 0

	reach := int(math.Ceil(math.Hypot(w, h)/2)) + 2
	for y := int(cy) - reach; y <= int(cy)+reach; y++ {
		for x := int(cx) - reach; x <= int(cx)+reach; x++ {
			// Переводим центр пикселя в систему прямоугольника
			p := rotatePoint(
				entity.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5},
				entity.Point{X: cx, Y: cy},
				-angle,
			)
			if math.Abs(p.X-cx) <= w/2 && math.Abs(p.Y-cy) <= h/2 {
				points = append(points, image.Pt(x, y))
				minX = minInt(minX, x)
				minY = minInt(minY, y)
				maxX = maxInt(maxX, x)
				maxY = maxInt(maxY, y)
			}
		}
	}

	box := image.Rect(minX, minY, maxX+1, maxY+1)
	return component{
		cand: entity.Candidate{
			Box:        box,
			Pixels:     len(points),
			Confidence: float64(len(points)) / float64(box.Dx()*box.Dy()),
		},
		points: points,
	}
}

func TestRefine_AxisAlignedStaysStraight(t *testing.T) {
	comp := rasterizeRotatedRect(100, 100, 120, 80, 0)
	frame, ok := refine(comp, testDetection(), 400, 400)

	require.True(t, ok)
	require.Zero(t, frame.Angle)
	require.True(t, frame.Corners.IsConvex())

	w, h := frame.Corners.Dims()
	require.InDelta(t, 120, w, 2)
	require.InDelta(t, 80, h, 2)
}

func TestRefine_RecoversSkewAngle(t *testing.T) {
	comp := rasterizeRotatedRect(150, 150, 120, 80, 5)
	frame, ok := refine(comp, testDetection(), 400, 400)

	require.True(t, ok)
	require.InDelta(t, 5, frame.Angle, 1.5)

	w, h := frame.Corners.Dims()
	require.InDelta(t, 120, w, 4)
	require.InDelta(t, 80, h, 4)
}

func TestRefine_IgnoresMarginalImprovement(t *testing.T) {
	cfg := testDetection()
	cfg.RotationImprovement = 0.5 // требуем огромный выигрыш

	comp := rasterizeRotatedRect(150, 150, 120, 80, 5)
	frame, ok := refine(comp, cfg, 400, 400)

	require.True(t, ok)
	require.Zero(t, frame.Angle)
}

func TestRefine_DropsSubMinimumArea(t *testing.T) {
	comp := rasterizeRotatedRect(20, 20, 12, 8, 0)
	// 96 пикселей на скане 400x400: меньше 2% площади
	_, ok := refine(comp, testDetection(), 400, 400)
	require.False(t, ok)
}

func TestCorrectAspect(t *testing.T) {
	// В пределах допуска: подтягиваем к 1.5
	w, h := correctAspect(130, 80, 1.5, 0.3)
	require.InDelta(t, 1.5, w/h, 1e-9)

	// Слишком далеко от ожидаемого: не трогаем
	w, h = correctAspect(200, 80, 1.5, 0.3)
	require.InDelta(t, 200, w, 1e-9)
	require.InDelta(t, 80, h, 1e-9)

	// Портретная ориентация сохраняется
	w, h = correctAspect(80, 130, 1.5, 0.3)
	require.Less(t, w, h)
	require.InDelta(t, 1.5, h/w, 1e-9)

	// Нулевая цель отключает коррекцию
	w, h = correctAspect(130, 80, 0, 0.3)
	require.InDelta(t, 130, w, 1e-9)
}
