package overlay

import (
	"fmt"
	"math"

	"vision-overlay/internal/domain/entity"
)

// Transform переводит координаты исходного изображения в координаты холста:
// x' = OffsetX + x*ScaleX, y' = OffsetY + y*ScaleY.
// Один Transform применяется ко всем рамкам одного рендера.
type Transform struct {
	ScaleX  float64
	ScaleY  float64
	OffsetX float64
	OffsetY float64
}

// StretchFit растягивает источник на весь холст независимо по осям.
func StretchFit(srcW, srcH, dstW, dstH int) Transform {
	return Transform{
		ScaleX: float64(dstW) / float64(srcW),
		ScaleY: float64(dstH) / float64(srcH),
	}
}

// AspectFit вписывает источник с сохранением пропорций и центрирует его.
func AspectFit(srcW, srcH, dstW, dstH int) Transform {
	scale := math.Min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	return Transform{
		ScaleX:  scale,
		ScaleY:  scale,
		OffsetX: (float64(dstW) - float64(srcW)*scale) / 2,
		OffsetY: (float64(dstH) - float64(srcH)*scale) / 2,
	}
}

// NewTransform проверяет размеры и строит преобразование для режима.
func NewTransform(mode entity.FitMode, srcW, srcH, dstW, dstH int) (Transform, error) {
	if srcW <= 0 || srcH <= 0 {
		return Transform{}, fmt.Errorf("%w: source size %dx%d", entity.ErrInvalidInput, srcW, srcH)
	}
	if dstW <= 0 || dstH <= 0 {
		return Transform{}, fmt.Errorf("%w: target size %dx%d", entity.ErrInvalidInput, dstW, dstH)
	}

	switch mode {
	case entity.FitStretch:
		return StretchFit(srcW, srcH, dstW, dstH), nil
	case entity.FitAspect:
		return AspectFit(srcW, srcH, dstW, dstH), nil
	default:
		return Transform{}, fmt.Errorf("%w: unknown fit mode %q", entity.ErrInvalidInput, mode)
	}
}

// Point переводит точку.
func (t Transform) Point(x, y float64) (float64, float64) {
	return t.OffsetX + x*t.ScaleX, t.OffsetY + y*t.ScaleY
}

// Box переводит рамку целиком.
func (t Transform) Box(b entity.BBox) entity.BBox {
	x1, y1 := t.Point(b.X1(), b.Y1())
	x2, y2 := t.Point(b.X2(), b.Y2())
	return entity.BBox{x1, y1, x2, y2}
}

// ImageRect возвращает прямоугольник, куда ложится исходное изображение.
func (t Transform) ImageRect(srcW, srcH int) (x, y, w, h float64) {
	return t.OffsetX, t.OffsetY, float64(srcW) * t.ScaleX, float64(srcH) * t.ScaleY
}
