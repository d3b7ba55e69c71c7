//go:build gocv
// +build gocv

package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"vision-overlay/internal/domain/entity"
	"vision-overlay/internal/logging"
	"vision-overlay/internal/overlay"
)

// hersheyBase высота глифа FontHersheySimplex при масштабе 1.0.
const hersheyBase = 22.0

// GoCVSurface поверхность на OpenCV в BGRA. Смешивания нет: альфа цвета
// записывается в канал как есть.
type GoCVSurface struct {
	mat gocv.Mat
	log zerolog.Logger
}

// NewGoCV создаёт полностью прозрачную BGRA-поверхность заданного размера.
func NewGoCV(width, height int) (overlay.Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: surface size %dx%d", entity.ErrInvalidInput, width, height)
	}
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC4)
	return &GoCVSurface{mat: mat, log: logging.NewServiceLogger("canvas.gocv")}, nil
}

func (s *GoCVSurface) Size() (int, int) {
	return s.mat.Cols(), s.mat.Rows()
}

func (s *GoCVSurface) DrawImage(img image.Image, x, y, w, h float64) {
	dst := rect(x, y, w, h).Intersect(image.Rect(0, 0, s.mat.Cols(), s.mat.Rows()))
	if dst.Empty() {
		return
	}

	src, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		s.log.Error().Err(err).Msg("convert source image to Mat")
		return
	}
	defer src.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(src, &resized, image.Pt(dst.Dx(), dst.Dy()), 0, 0, gocv.InterpolationArea)

	roi := s.mat.Region(dst)
	defer roi.Close()
	resized.CopyTo(&roi)
}

func (s *GoCVSurface) StrokeRect(x, y, w, h, lineWidth float64, c color.Color) {
	thickness := int(math.Max(1, math.Round(lineWidth)))
	gocv.Rectangle(&s.mat, rect(x, y, w, h), toRGBA(c), thickness)
}

func (s *GoCVSurface) FillRect(x, y, w, h float64, c color.Color) {
	gocv.Rectangle(&s.mat, rect(x, y, w, h), toRGBA(c), -1)
}

func (s *GoCVSurface) FillText(text string, x, y, size float64, c color.Color) {
	scale, thickness := fontScale(size)
	pt := image.Pt(int(math.Round(x)), int(math.Round(y)))
	gocv.PutText(&s.mat, text, pt, gocv.FontHersheySimplex, scale, toRGBA(c), thickness)
}

func (s *GoCVSurface) MeasureText(text string, size float64) (float64, float64) {
	scale, thickness := fontScale(size)
	sz := gocv.GetTextSize(text, gocv.FontHersheySimplex, scale, thickness)
	return float64(sz.X), float64(sz.Y)
}

func (s *GoCVSurface) Image() image.Image {
	img, err := s.mat.ToImage()
	if err != nil {
		s.log.Error().Err(err).Int("cols", s.mat.Cols()).Int("rows", s.mat.Rows()).Msg("convert Mat to image")
		return image.NewRGBA(image.Rect(0, 0, s.mat.Cols(), s.mat.Rows()))
	}
	return img
}

// Close освобождает Mat.
func (s *GoCVSurface) Close() error {
	return s.mat.Close()
}

func rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	)
}

func fontScale(size float64) (float64, int) {
	scale := size / hersheyBase
	return scale, int(math.Max(1, math.Round(scale*1.5)))
}

func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

var _ overlay.Raster = (*GoCVSurface)(nil)
