// Package overlay раскладывает детекции на холсте и рисует рамки, подписи и легенду.
package overlay

import (
	"image"
	"image/color"
)

// TextMeasurer измеряет ширину и высоту строки при заданном кегле.
type TextMeasurer interface {
	MeasureText(text string, size float64) (w, h float64)
}

// Surface поверхность, на которую рисует рендерер.
// Координаты в пикселях холста, y текста задаёт базовую линию.
type Surface interface {
	TextMeasurer

	Size() (width, height int)
	DrawImage(img image.Image, x, y, w, h float64)
	StrokeRect(x, y, w, h, lineWidth float64, c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	FillText(text string, x, y, size float64, c color.Color)
}

// Raster поверхность в памяти, из которой можно забрать готовый кадр.
type Raster interface {
	Surface
	Image() image.Image
}

// RasterFactory создаёт чистую прозрачную поверхность заданного размера.
type RasterFactory func(width, height int) (Raster, error)
