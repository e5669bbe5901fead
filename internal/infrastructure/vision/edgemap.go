package vision

import (
	"image"

	"scan-crop/internal/domain/entity"
)

// EdgeMap — скалярное поле той же размерности, что и рабочее изображение.
// Значение пикселя — абсолютное отклонение яркости от уровня подложки,
// поэтому поле одинаково работает для негативов и позитивов.
type EdgeMap struct {
	W, H int
	Pix  []float32
}

func (m *EdgeMap) at(x, y int) float32 {
	return m.Pix[y*m.W+x]
}

// buildEdgeMap строит поле контраста и попутно определяет полярность скана.
// Уровень подложки оценивается медианой яркости краевых полос: рамка
// держателя почти всегда выходит на края скана.
func buildEdgeMap(gray *image.Gray) (*EdgeMap, entity.Polarity) {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	band := minInt(w, h) / 50
	if band < 5 {
		band = 5
	}
	if band > minInt(w, h) {
		band = minInt(w, h)
	}

	// Гистограмма яркостей краевых полос
	var hist [256]int
	total := 0
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		if y < band || y >= h-band {
			for _, v := range row {
				hist[v]++
			}
			total += w
			continue
		}
		for x := 0; x < band && x < w; x++ {
			hist[row[x]]++
			total++
		}
		for x := maxInt(w-band, band); x < w; x++ {
			hist[row[x]]++
			total++
		}
	}

	background := histogramMedian(hist[:], total)

	polarity := entity.PolarityPositive
	if background >= 150 {
		polarity = entity.PolarityNegative
	}

	em := &EdgeMap{W: w, H: h, Pix: make([]float32, w*h)}
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, v := range row {
			d := int(v) - background
			if d < 0 {
				d = -d
			}
			em.Pix[y*w+x] = float32(d)
		}
	}

	return em, polarity
}

func histogramMedian(hist []int, total int) int {
	if total == 0 {
		return 0
	}
	half := total / 2
	seen := 0
	for v, n := range hist {
		seen += n
		if seen > half {
			return v
		}
	}
	return len(hist) - 1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
