package vision

import "scan-crop/internal/domain/entity"

// Насколько пропорция должна отличаться от квадрата, чтобы судить
// об ориентации. Почти квадратные кадры (6x6) не трогаем.
const orientationTolerance = 1.15

// resolveRotation решает, нужен ли грубый поворот на 90 градусов: если
// измеренная пропорция кадра обратна ожидаемой, скан сделан боком.
// Поворот на 180 здесь не определяется — по геометрии рамки верх кадра
// от низа неотличим, это известное ограничение.
func resolveRotation(q entity.Quad, expectedAspect float64) int {
	if expectedAspect <= 0 {
		return 0
	}

	w, h := q.Dims()
	if w <= 0 || h <= 0 {
		return 0
	}

	measured := w / h
	if ratioMax(expectedAspect) < orientationTolerance || ratioMax(measured) < orientationTolerance {
		return 0
	}

	// Пропорции по разные стороны от квадрата — кадр лежит на боку.
	if (expectedAspect > 1) != (measured > 1) {
		return 90
	}
	return 0
}

func ratioMax(r float64) float64 {
	if r < 1 {
		return 1 / r
	}
	return r
}
