package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"vision-overlay/internal/domain/entity"
	"vision-overlay/internal/overlay"
)

var regular *truetype.Font

func init() {
	var err error
	regular, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// GGSurface растровая поверхность на fogleman/gg со шрифтом Go Regular.
type GGSurface struct {
	dc    *gg.Context
	faces map[float64]font.Face
}

// NewGG создаёт прозрачную поверхность заданного размера.
func NewGG(width, height int) (overlay.Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: surface size %dx%d", entity.ErrInvalidInput, width, height)
	}
	return &GGSurface{
		dc:    gg.NewContext(width, height),
		faces: make(map[float64]font.Face),
	}, nil
}

func (s *GGSurface) Size() (int, int) {
	return s.dc.Width(), s.dc.Height()
}

// DrawImage масштабирует img в прямоугольник (x, y, w, h) билинейной интерполяцией.
func (s *GGSurface) DrawImage(img image.Image, x, y, w, h float64) {
	dw, dh := int(math.Round(w)), int(math.Round(h))
	if dw <= 0 || dh <= 0 {
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	s.dc.DrawImage(scaled, int(math.Round(x)), int(math.Round(y)))
}

func (s *GGSurface) StrokeRect(x, y, w, h, lineWidth float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(lineWidth)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Stroke()
}

func (s *GGSurface) FillRect(x, y, w, h float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

func (s *GGSurface) FillText(text string, x, y, size float64, c color.Color) {
	s.dc.SetFontFace(s.face(size))
	s.dc.SetColor(c)
	s.dc.DrawString(text, x, y)
}

func (s *GGSurface) MeasureText(text string, size float64) (float64, float64) {
	s.dc.SetFontFace(s.face(size))
	return s.dc.MeasureString(text)
}

func (s *GGSurface) Image() image.Image {
	return s.dc.Image()
}

// face кэширует начертания по кеглю.
func (s *GGSurface) face(size float64) font.Face {
	if f, ok := s.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(regular, &truetype.Options{Size: size})
	s.faces[size] = f
	return f
}

var _ overlay.Raster = (*GGSurface)(nil)
