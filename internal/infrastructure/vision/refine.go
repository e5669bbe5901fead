package vision

import (
	"math"

	"scan-crop/config"
	"scan-crop/internal/domain/entity"
)

// refine подбирает к компоненте минимальный (возможно, повёрнутый)
// прямоугольник. Поиск идёт ограниченным перебором углов: берётся угол,
// при котором повёрнутый ограничивающий прямоугольник пикселей компоненты
// минимален. Наклон принимается только если выигрыш по площади заметен,
// иначе шум превращался бы в ложные повороты.
//
// Возвращает false, если уточнённый прямоугольник нарушает инварианты
// минимальной площади или выпуклости: такой кандидат отбрасывается.
func refine(comp component, cfg config.Detection, imgW, imgH int) (entity.FrameRect, bool) {
	box := comp.cand.Box
	pivot := entity.Point{
		X: float64(box.Min.X+box.Max.X) / 2,
		Y: float64(box.Min.Y+box.Max.Y) / 2,
	}

	type fit struct {
		angle                  float64
		minX, minY, maxX, maxY float64
		area                   float64
	}

	measure := func(angle float64) fit {
		rad := angle * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		f := fit{angle: angle, minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
		for _, p := range comp.points {
			dx := float64(p.X) + 0.5 - pivot.X
			dy := float64(p.Y) + 0.5 - pivot.Y
			rx := dx*cos - dy*sin
			ry := dx*sin + dy*cos
			f.minX = math.Min(f.minX, rx)
			f.minY = math.Min(f.minY, ry)
			f.maxX = math.Max(f.maxX, rx)
			f.maxY = math.Max(f.maxY, ry)
		}
		f.area = (f.maxX - f.minX + 1) * (f.maxY - f.minY + 1)
		return f
	}

	base := measure(0)
	best := base

	if cfg.RotationRangeDeg > 0 && cfg.RotationStepDeg > 0 {
		for a := -cfg.RotationRangeDeg; a <= cfg.RotationRangeDeg+1e-9; a += cfg.RotationStepDeg {
			if math.Abs(a) < 1e-9 {
				continue
			}
			if f := measure(a); f.area < best.area {
				best = f
			}
		}
	}

	improvement := 0.0
	if base.area > 0 {
		improvement = (base.area - best.area) / base.area
	}
	if best.angle == 0 || improvement < cfg.RotationImprovement {
		best = base
	}

	// Центр и размер в повёрнутой системе, затем обратно в координаты скана.
	centerRot := entity.Point{X: (best.minX + best.maxX) / 2, Y: (best.minY + best.maxY) / 2}
	center := rotatePoint(centerRot, entity.Point{}, -best.angle)
	center.X += pivot.X
	center.Y += pivot.Y

	w := best.maxX - best.minX + 1
	h := best.maxY - best.minY + 1
	w, h = correctAspect(w, h, cfg.ExpectedAspect, cfg.MaxAspectDelta)

	angle := -best.angle
	corners := rotatedRectCorners(center, w, h, angle)

	minArea := cfg.MinAreaFraction * float64(imgW) * float64(imgH)
	if !corners.IsConvex() || corners.Area() < minArea {
		return entity.FrameRect{}, false
	}

	return entity.FrameRect{
		Corners: corners,
		Angle:   angle,
		Source:  comp.cand,
	}, true
}

// correctAspect подтягивает стороны к ожидаемой пропорции кадра, если
// отклонение невелико: рамка держателя чуть шире кадра, и измеренная
// пропорция обычно уплывает в её сторону. Сильное расхождение оставляем
// как есть — это не тот кадр, который мы ожидали, а не погрешность.
func correctAspect(w, h, target, maxDelta float64) (float64, float64) {
	if target <= 0 {
		return w, h
	}
	if target < 1 {
		target = 1 / target
	}

	long, short := math.Max(w, h), math.Min(w, h)
	if short <= 0 {
		return w, h
	}
	ratio := long / short
	if math.Abs(target-ratio) > maxDelta {
		return w, h
	}

	if ratio > target {
		long = short * target
	} else {
		short = long / target
	}

	if w >= h {
		return long, short
	}
	return short, long
}

// rotatedRectCorners строит углы прямоугольника с центром c, размером w на h
// и наклоном angle градусов, в порядке TL, TR, BR, BL.
func rotatedRectCorners(c entity.Point, w, h, angle float64) entity.Quad {
	half := []entity.Point{
		{X: -w / 2, Y: -h / 2},
		{X: w / 2, Y: -h / 2},
		{X: w / 2, Y: h / 2},
		{X: -w / 2, Y: h / 2},
	}
	var q entity.Quad
	for i, off := range half {
		p := rotatePoint(off, entity.Point{}, angle)
		q[i] = entity.Point{X: c.X + p.X, Y: c.Y + p.Y}
	}
	return q
}

// rotatePoint поворачивает точку p вокруг pivot на angle градусов.
func rotatePoint(p, pivot entity.Point, angle float64) entity.Point {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	dx, dy := p.X-pivot.X, p.Y-pivot.Y
	return entity.Point{
		X: pivot.X + dx*cos - dy*sin,
		Y: pivot.Y + dx*sin + dy*cos,
	}
}
