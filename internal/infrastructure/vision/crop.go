package vision

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"scan-crop/internal/domain/entity"
)

// Наклон меньше этого не стоит ресемплинга: берём прямой кроп.
const straightAngleEps = 0.05

// cropFrame вырезает область q из исходного изображения. Прямоугольник по
// осям копируется напрямую; наклонный четырёхугольник выпрямляется
// проективным отображением с билинейной выборкой, размер результата равен
// измеренным длинам сторон.
func cropFrame(src *image.RGBA, q entity.Quad, angle float64) *image.RGBA {
	if math.Abs(angle) < straightAngleEps {
		r := q.Bounds().Intersect(src.Bounds())
		if r.Empty() {
			return image.NewRGBA(image.Rect(0, 0, 1, 1))
		}
		out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(out, out.Bounds(), src, r.Min, draw.Src)
		return out
	}
	return rectifyQuad(src, q)
}

// rectifyQuad отображает четырёхугольник в прямоугольный выход.
func rectifyQuad(src *image.RGBA, q entity.Quad) *image.RGBA {
	fw, fh := q.Dims()
	w := maxInt(1, int(math.Round(fw)))
	h := maxInt(1, int(math.Round(fh)))

	p := newPerspective(q)
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		v := (float64(y) + 0.5) / float64(h)
		for x := 0; x < w; x++ {
			u := (float64(x) + 0.5) / float64(w)
			sx, sy := p.map2(u, v)
			out.SetRGBA(x, y, bilinearRGBA(src, sx, sy))
		}
	}
	return out
}

// perspective — проективное отображение единичного квадрата на
// четырёхугольник (коэффициенты по Хекберту).
type perspective struct {
	a, b, c float64
	d, e, f float64
	g, h    float64
}

func newPerspective(q entity.Quad) perspective {
	p00, p10, p11, p01 := q[0], q[1], q[2], q[3]

	sx := p00.X - p10.X + p11.X - p01.X
	sy := p00.Y - p10.Y + p11.Y - p01.Y

	var p perspective
	if math.Abs(sx) < 1e-9 && math.Abs(sy) < 1e-9 {
		// Параллелограмм: аффинного отображения достаточно.
		p.a = p10.X - p00.X
		p.b = p01.X - p00.X
		p.c = p00.X
		p.d = p10.Y - p00.Y
		p.e = p01.Y - p00.Y
		p.f = p00.Y
		return p
	}

	dx1 := p10.X - p11.X
	dx2 := p01.X - p11.X
	dy1 := p10.Y - p11.Y
	dy2 := p01.Y - p11.Y
	den := dx1*dy2 - dy1*dx2

	p.g = (sx*dy2 - sy*dx2) / den
	p.h = (dx1*sy - dy1*sx) / den
	p.a = p10.X - p00.X + p.g*p10.X
	p.b = p01.X - p00.X + p.h*p01.X
	p.c = p00.X
	p.d = p10.Y - p00.Y + p.g*p10.Y
	p.e = p01.Y - p00.Y + p.h*p01.Y
	p.f = p00.Y
	return p
}

// map2 переводит (u, v) из [0,1]² в координаты исходного изображения.
func (p perspective) map2(u, v float64) (float64, float64) {
	den := p.g*u + p.h*v + 1
	return (p.a*u + p.b*v + p.c) / den, (p.d*u + p.e*v + p.f) / den
}

// bilinearRGBA выбирает значение в дробной точке с билинейной
// интерполяцией; координаты за краем зажимаются.
func bilinearRGBA(src *image.RGBA, x, y float64) color.RGBA {
	b := src.Bounds()
	x -= 0.5
	y -= 0.5

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	clampX := func(v int) int { return minInt(maxInt(v, b.Min.X), b.Max.X-1) }
	clampY := func(v int) int { return minInt(maxInt(v, b.Min.Y), b.Max.Y-1) }

	c00 := src.RGBAAt(clampX(x0), clampY(y0))
	c10 := src.RGBAAt(clampX(x0+1), clampY(y0))
	c01 := src.RGBAAt(clampX(x0), clampY(y0+1))
	c11 := src.RGBAAt(clampX(x0+1), clampY(y0+1))

	lerp := func(a, b, c, d uint8) uint8 {
		top := float64(a) + (float64(b)-float64(a))*fx
		bot := float64(c) + (float64(d)-float64(c))*fx
		return uint8(math.Round(top + (bot-top)*fy))
	}

	return color.RGBA{
		R: lerp(c00.R, c10.R, c01.R, c11.R),
		G: lerp(c00.G, c10.G, c01.G, c11.G),
		B: lerp(c00.B, c10.B, c01.B, c11.B),
		A: lerp(c00.A, c10.A, c01.A, c11.A),
	}
}

// rotate90 поворачивает изображение на 90 градусов по часовой стрелке.
func rotate90(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			out.SetRGBA(x, y, src.RGBAAt(b.Min.X+y, b.Min.Y+h-1-x))
		}
	}
	return out
}

// toRGBA приводит произвольное изображение к RGBA с началом в нуле.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == image.Pt(0, 0) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
