package entity

import (
	"image"
	"math"
)

// Point представляет точку на изображении в пиксельных координатах.
type Point struct {
	X, Y float64
}

// Quad — четыре угла области кадра в порядке TL, TR, BR, BL.
type Quad [4]Point

// Candidate представляет область-кандидат, найденную детектором границ.
type Candidate struct {
	Box        image.Rectangle // ограничивающий прямоугольник по осям
	Pixels     int             // число пикселей компоненты внутри Box
	Confidence float64         // Pixels / площадь Box
}

// FrameRect — уточнённый прямоугольник кадра (возможно, повёрнутый).
type FrameRect struct {
	Corners Quad      // углы в координатах исходного изображения
	Angle   float64   // угол наклона в градусах
	Source  Candidate // кандидат, из которого получен прямоугольник
}

// Area возвращает площадь четырёхугольника (формула шнурка).
func (q Quad) Area() float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		sum += q[i].X*q[j].Y - q[j].X*q[i].Y
	}
	return math.Abs(sum) / 2
}

// IsConvex проверяет, что углы образуют выпуклый несамопересекающийся
// четырёхугольник: все векторные произведения рёбер одного знака.
func (q Quad) IsConvex() bool {
	var sign float64
	for i := 0; i < 4; i++ {
		a := q[i]
		b := q[(i+1)%4]
		c := q[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross == 0 {
			return false
		}
		if sign == 0 {
			sign = cross
		} else if sign*cross < 0 {
			return false
		}
	}
	return true
}

// Centroid возвращает центр четырёхугольника.
func (q Quad) Centroid() Point {
	var cx, cy float64
	for _, p := range q {
		cx += p.X
		cy += p.Y
	}
	return Point{X: cx / 4, Y: cy / 4}
}

// Dims возвращает измеренные ширину и высоту: среднее противоположных сторон.
func (q Quad) Dims() (w, h float64) {
	top := dist(q[0], q[1])
	bottom := dist(q[3], q[2])
	left := dist(q[0], q[3])
	right := dist(q[1], q[2])
	return (top + bottom) / 2, (left + right) / 2
}

// Scale масштабирует углы независимо по осям.
func (q Quad) Scale(sx, sy float64) Quad {
	var out Quad
	for i, p := range q {
		out[i] = Point{X: p.X * sx, Y: p.Y * sy}
	}
	return out
}

// Inset равномерно стягивает углы к центру на долю fraction.
func (q Quad) Inset(fraction float64) Quad {
	c := q.Centroid()
	k := 1 - fraction
	var out Quad
	for i, p := range q {
		out[i] = Point{X: c.X + (p.X-c.X)*k, Y: c.Y + (p.Y-c.Y)*k}
	}
	return out
}

// Bounds возвращает целочисленный ограничивающий прямоугольник углов.
func (q Quad) Bounds() image.Rectangle {
	minX, minY := q[0].X, q[0].Y
	maxX, maxY := q[0].X, q[0].Y
	for _, p := range q[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// QuadFromRect строит четырёхугольник из прямоугольника по осям.
func QuadFromRect(r image.Rectangle) Quad {
	return Quad{
		{X: float64(r.Min.X), Y: float64(r.Min.Y)},
		{X: float64(r.Max.X), Y: float64(r.Min.Y)},
		{X: float64(r.Max.X), Y: float64(r.Max.Y)},
		{X: float64(r.Min.X), Y: float64(r.Max.Y)},
	}
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
