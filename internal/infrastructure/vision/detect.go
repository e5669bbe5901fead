package vision

import (
	"image"
	"sort"

	"scan-crop/config"
	"scan-crop/internal/domain/entity"
)

// Порог не опускается ниже этого значения, иначе на однотонном скане
// вся площадь стала бы одной компонентой.
const minContrastFloor = 10

// bitMask — бинарная маска "пиксель принадлежит содержимому кадра".
type bitMask struct {
	w, h int
	bits []bool
}

// component — связная компонента маски вместе с её пикселями.
// Пиксели нужны уточнителю для поиска наклона.
type component struct {
	cand   entity.Candidate
	points []image.Point
}

// thresholdMask бинаризует поле контраста адаптивным порогом: значение
// на заданном перцентиле гистограммы, но не ниже минимального контраста.
func thresholdMask(em *EdgeMap, percentile float64) *bitMask {
	thr := percentileValue(em.Pix, percentile)
	if thr < minContrastFloor {
		thr = minContrastFloor
	}

	m := &bitMask{w: em.W, h: em.H, bits: make([]bool, em.W*em.H)}
	for i, v := range em.Pix {
		m.bits[i] = v >= thr
	}
	return m
}

// percentileValue возвращает значение на перцентиле p (0..1) по
// 256-корзинной гистограмме поля.
func percentileValue(pix []float32, p float64) float32 {
	if len(pix) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	var hist [256]int
	for _, v := range pix {
		idx := int(v)
		if idx < 0 {
			idx = 0
		}
		if idx > 255 {
			idx = 255
		}
		hist[idx]++
	}

	target := int(p * float64(len(pix)))
	seen := 0
	for v, n := range hist {
		seen += n
		if seen > target {
			return float32(v)
		}
	}
	return 255
}

// findComponents размечает связные компоненты маски обходом с явным
// стеком (без рекурсии) и отбрасывает шумовые компоненты.
func findComponents(m *bitMask, cfg config.Detection) []component {
	minArea := int(cfg.MinAreaFraction * float64(m.w) * float64(m.h))

	visited := make([]bool, len(m.bits))
	queue := make([]int, 0, 1024)
	var comps []component

	for start, on := range m.bits {
		if !on || visited[start] {
			continue
		}

		visited[start] = true
		queue = append(queue[:0], start)

		minX, minY := m.w, m.h
		maxX, maxY := 0, 0
		points := make([]image.Point, 0, 1024)

		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]

			x, y := idx%m.w, idx/m.w
			points = append(points, image.Pt(x, y))
			minX = minInt(minX, x)
			minY = minInt(minY, y)
			maxX = maxInt(maxX, x)
			maxY = maxInt(maxY, y)

			// 4-связность
			if x > 0 && m.bits[idx-1] && !visited[idx-1] {
				visited[idx-1] = true
				queue = append(queue, idx-1)
			}
			if x < m.w-1 && m.bits[idx+1] && !visited[idx+1] {
				visited[idx+1] = true
				queue = append(queue, idx+1)
			}
			if y > 0 && m.bits[idx-m.w] && !visited[idx-m.w] {
				visited[idx-m.w] = true
				queue = append(queue, idx-m.w)
			}
			if y < m.h-1 && m.bits[idx+m.w] && !visited[idx+m.w] {
				visited[idx+m.w] = true
				queue = append(queue, idx+m.w)
			}
		}

		box := image.Rect(minX, minY, maxX+1, maxY+1)
		boxArea := box.Dx() * box.Dy()
		if boxArea < minArea || len(points) < cfg.MinMaskPixels {
			continue
		}

		comps = append(comps, component{
			cand: entity.Candidate{
				Box:        box,
				Pixels:     len(points),
				Confidence: float64(len(points)) / float64(boxArea),
			},
			points: points,
		})
	}

	sortComponents(comps)
	return comps
}

// sortComponents упорядочивает кандидатов: по убыванию уверенности,
// при равенстве — в порядке чтения слева направо, затем сверху вниз.
func sortComponents(comps []component) {
	sort.SliceStable(comps, func(i, j int) bool {
		a, b := comps[i].cand, comps[j].cand
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Box.Min.X != b.Box.Min.X {
			return a.Box.Min.X < b.Box.Min.X
		}
		return a.Box.Min.Y < b.Box.Min.Y
	})
}
