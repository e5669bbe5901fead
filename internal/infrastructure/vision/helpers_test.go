package vision

import (
	"image"
	"image/color"
	"image/draw"
)

// newScan создаёт синтетический RGB-скан с однотонной подложкой.
func newScan(w, h int, bg uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{bg, bg, bg, 255}), image.Point{}, draw.Src)
	return img
}

// fillRect закрашивает прямоугольник серым значением v.
func fillRect(img *image.RGBA, r image.Rectangle, v uint8) {
	draw.Draw(img, r, image.NewUniform(color.RGBA{v, v, v, 255}), image.Point{}, draw.Src)
}

// newGray создаёт одноканальное изображение с однотонным фоном.
func newGray(w, h int, bg uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = bg
	}
	return img
}

// fillGrayRect закрашивает прямоугольник в одноканальном изображении.
func fillGrayRect(img *image.Gray, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}
