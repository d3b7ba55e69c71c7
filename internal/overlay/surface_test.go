package overlay

import (
	"image"
	"image/color"
)

type opKind string

const (
	opDrawImage  opKind = "draw_image"
	opStrokeRect opKind = "stroke_rect"
	opFillRect   opKind = "fill_rect"
	opFillText   opKind = "fill_text"
)

type op struct {
	Kind       opKind
	X, Y, W, H float64
	LineWidth  float64
	Size       float64
	Text       string
	Color      color.Color
}

// recordingSurface запоминает вызовы рисования вместо растеризации.
type recordingSurface struct {
	width, height int
	ops           []op
}

func newRecordingSurface(w, h int) *recordingSurface {
	return &recordingSurface{width: w, height: h}
}

func (s *recordingSurface) Size() (int, int) { return s.width, s.height }

func (s *recordingSurface) DrawImage(_ image.Image, x, y, w, h float64) {
	s.ops = append(s.ops, op{Kind: opDrawImage, X: x, Y: y, W: w, H: h})
}

func (s *recordingSurface) StrokeRect(x, y, w, h, lineWidth float64, c color.Color) {
	s.ops = append(s.ops, op{Kind: opStrokeRect, X: x, Y: y, W: w, H: h, LineWidth: lineWidth, Color: c})
}

func (s *recordingSurface) FillRect(x, y, w, h float64, c color.Color) {
	s.ops = append(s.ops, op{Kind: opFillRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (s *recordingSurface) FillText(text string, x, y, size float64, c color.Color) {
	s.ops = append(s.ops, op{Kind: opFillText, X: x, Y: y, Size: size, Text: text, Color: c})
}

// MeasureText считает ширину как полкегля на символ.
func (s *recordingSurface) MeasureText(text string, size float64) (float64, float64) {
	return float64(len(text)) * size * 0.5, size
}

func (s *recordingSurface) Image() image.Image {
	return image.NewRGBA(image.Rect(0, 0, s.width, s.height))
}

func (s *recordingSurface) only(kind opKind) []op {
	var out []op
	for _, o := range s.ops {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// recordingFactory отдаёт новые recordingSurface и запоминает их.
type recordingFactory struct {
	made []*recordingSurface
}

func (f *recordingFactory) New(w, h int) (Raster, error) {
	s := newRecordingSurface(w, h)
	f.made = append(f.made, s)
	return s, nil
}

func (f *recordingFactory) last() *recordingSurface {
	return f.made[len(f.made)-1]
}
