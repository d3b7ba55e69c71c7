package overlay

import (
	"image/color"
	"math"
)

var (
	boxColor    = color.RGBA{R: 255, A: 255}
	labelColor  = color.RGBA{R: 255, A: 255}
	legendFill  = color.RGBA{R: 16, G: 16, B: 16, A: 255}
	legendInk   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	letterboxBg = color.RGBA{A: 255}
)

// Style параметры отрисовки: толщина линий, кегль, метрики легенды.
type Style struct {
	LineWidth float64
	FontSize  float64

	// Смещение подписи от левого верхнего угла рамки.
	LabelInsetX float64
	LabelGapY   float64

	LegendMargin     float64
	LegendPadding    float64
	LegendLineHeight float64
	LegendMinWidth   float64

	BoxColor   color.Color
	LabelColor color.Color
	LegendFill color.Color
	LegendInk  color.Color
}

// SnapshotStyle стиль для снимка произвольного разрешения:
// толщина линий и кегль пропорциональны большей стороне холста.
func SnapshotStyle(width, height int) Style {
	side := math.Max(float64(width), float64(height))
	return Style{
		LineWidth:        math.Max(1, side*0.003),
		FontSize:         math.Max(8, side*0.02),
		LabelInsetX:      5,
		LabelGapY:        5,
		LegendMargin:     10,
		LegendPadding:    10,
		LegendLineHeight: math.Max(10, side*0.025),
		LegendMinWidth:   200,
		BoxColor:         boxColor,
		LabelColor:       labelColor,
		LegendFill:       legendFill,
		LegendInk:        legendInk,
	}
}

// LiveStyle стиль для слоя поверх уже показанного изображения, в масштабе экрана.
func LiveStyle() Style {
	return Style{
		LineWidth:        3,
		FontSize:         16,
		LabelInsetX:      2,
		LabelGapY:        5,
		LegendMargin:     10,
		LegendPadding:    10,
		LegendLineHeight: 20,
		LegendMinWidth:   150,
		BoxColor:         boxColor,
		LabelColor:       labelColor,
		LegendFill:       legendFill,
		LegendInk:        legendInk,
	}
}
