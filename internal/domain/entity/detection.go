package entity

import (
	"fmt"
	"math"
)

// BBox прямоугольник (x1, y1, x2, y2) в пикселях исходного изображения.
type BBox [4]float64

func (b BBox) X1() float64 { return b[0] }
func (b BBox) Y1() float64 { return b[1] }
func (b BBox) X2() float64 { return b[2] }
func (b BBox) Y2() float64 { return b[3] }

// Width возвращает ширину рамки.
func (b BBox) Width() float64 { return b[2] - b[0] }

// Height возвращает высоту рамки.
func (b BBox) Height() float64 { return b[3] - b[1] }

// Detection один объект, найденный сервисом инференса.
type Detection struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
}

// Percent возвращает уверенность в процентах, округлённую до целого.
func (d Detection) Percent() int {
	return int(math.Round(d.Confidence * 100))
}

// Label возвращает подпись рамки вида "defect (87%)".
func (d Detection) Label() string {
	return fmt.Sprintf("%s (%d%%)", d.Class, d.Percent())
}

// Validate проверяет, что детекция соответствует контракту сервиса инференса.
func (d Detection) Validate() error {
	if d.Class == "" {
		return fmt.Errorf("%w: empty class", ErrInvalidDetection)
	}
	if math.IsNaN(d.Confidence) || d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of [0,1]", ErrInvalidDetection, d.Confidence)
	}
	for _, v := range d.BBox {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bbox %v", ErrInvalidDetection, d.BBox)
		}
	}
	if d.BBox.X1() > d.BBox.X2() || d.BBox.Y1() > d.BBox.Y2() {
		return fmt.Errorf("%w: inverted bbox %v", ErrInvalidDetection, d.BBox)
	}
	return nil
}
