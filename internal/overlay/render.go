package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"vision-overlay/internal/domain/entity"
	"vision-overlay/internal/domain/port"
)

const (
	DefaultJPEGQuality     = 90
	DefaultMaxTargetSide   = 8192
	DefaultMaxSourcePixels = 50_000_000
)

// Request входные данные одного рендера.
type Request struct {
	Source       image.Image
	Detections   []entity.Detection
	TargetWidth  int
	TargetHeight int
	Mode         entity.FitMode
}

// Renderer рисует рамки, подписи и легенду. Состояния между вызовами не хранит:
// каждый рендер получает свою поверхность из фабрики.
type Renderer struct {
	newRaster       RasterFactory
	jpegQuality     int
	maxTargetSide   int
	maxSourcePixels int
}

type Option func(*Renderer)

// WithJPEGQuality задаёт качество JPEG для снимков (1..100).
func WithJPEGQuality(quality int) Option {
	return func(r *Renderer) {
		if quality >= 1 && quality <= 100 {
			r.jpegQuality = quality
		}
	}
}

// WithMaxTargetSide ограничивает каждую сторону холста.
func WithMaxTargetSide(side int) Option {
	return func(r *Renderer) {
		if side > 0 {
			r.maxTargetSide = side
		}
	}
}

// WithMaxSourcePixels ограничивает площадь исходного снимка, проверяется по заголовку до декодирования.
func WithMaxSourcePixels(pixels int) Option {
	return func(r *Renderer) {
		if pixels > 0 {
			r.maxSourcePixels = pixels
		}
	}
}

// NewRenderer создаёт рендерер поверх фабрики поверхностей.
func NewRenderer(factory RasterFactory, opts ...Option) *Renderer {
	r := &Renderer{
		newRaster:       factory,
		jpegQuality:     DefaultJPEGQuality,
		maxTargetSide:   DefaultMaxTargetSide,
		maxSourcePixels: DefaultMaxSourcePixels,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render рисует снимок с разметкой на новой поверхности размера TargetWidth x TargetHeight.
func (r *Renderer) Render(req Request) (image.Image, error) {
	if req.Source == nil {
		return nil, fmt.Errorf("%w: nil source image", entity.ErrInvalidInput)
	}

	b := req.Source.Bounds()
	t, err := NewTransform(req.Mode, b.Dx(), b.Dy(), req.TargetWidth, req.TargetHeight)
	if err != nil {
		return nil, err
	}
	if err := r.checkTarget(req.TargetWidth, req.TargetHeight); err != nil {
		return nil, err
	}

	raster, err := r.newRaster(req.TargetWidth, req.TargetHeight)
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	defer release(raster)

	if req.Mode == entity.FitAspect {
		raster.FillRect(0, 0, float64(req.TargetWidth), float64(req.TargetHeight), letterboxBg)
	}
	x, y, w, h := t.ImageRect(b.Dx(), b.Dy())
	raster.DrawImage(req.Source, x, y, w, h)

	Plan(raster, t, SnapshotStyle(req.TargetWidth, req.TargetHeight), req.Detections).Paint(raster)

	return raster.Image(), nil
}

// Snapshot декодирует снимок, рисует разметку и кодирует результат в JPEG.
func (r *Renderer) Snapshot(imageData []byte, detections []entity.Detection, width, height int, mode entity.FitMode) ([]byte, error) {
	if err := r.checkTarget(width, height); err != nil {
		return nil, err
	}
	if _, _, err := r.sourceSize(imageData); err != nil {
		return nil, err
	}

	src, err := Decode(imageData)
	if err != nil {
		return nil, err
	}

	img, err := r.Render(Request{
		Source:       src,
		Detections:   detections,
		TargetWidth:  width,
		TargetHeight: height,
		Mode:         mode,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderOnto рисует разметку прямо на переданную поверхность, которая лежит поверх
// изображения srcW x srcH, вписанного с сохранением пропорций.
// Изображение не рисуется, рисунок остаётся на поверхности.
func RenderOnto(s Surface, detections []entity.Detection, srcW, srcH int) error {
	if s == nil {
		return fmt.Errorf("%w: nil surface", entity.ErrInvalidInput)
	}

	w, h := s.Size()
	t, err := NewTransform(entity.FitAspect, srcW, srcH, w, h)
	if err != nil {
		return err
	}

	Plan(s, t, LiveStyle(), detections).Paint(s)
	return nil
}

// Layer рисует разметку на прозрачном слое width x height и возвращает PNG.
func (r *Renderer) Layer(imageData []byte, detections []entity.Detection, width, height int) ([]byte, error) {
	srcW, srcH, err := r.sourceSize(imageData)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", entity.ErrInvalidInput, width, height)
	}
	if err := r.checkTarget(width, height); err != nil {
		return nil, err
	}

	raster, err := r.newRaster(width, height)
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	defer release(raster)

	if err := RenderOnto(raster, detections, srcW, srcH); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, raster.Image()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) checkTarget(width, height int) error {
	if width > r.maxTargetSide || height > r.maxTargetSide {
		return fmt.Errorf("%w: target size %dx%d exceeds %d per side", entity.ErrInvalidInput, width, height, r.maxTargetSide)
	}
	return nil
}

// sourceSize читает размер из заголовка и отсекает снимки, которые нельзя декодировать целиком.
func (r *Renderer) sourceSize(imageData []byte) (int, int, error) {
	w, h, err := DecodeSize(imageData)
	if err != nil {
		return 0, 0, err
	}
	if int64(w)*int64(h) > int64(r.maxSourcePixels) {
		return 0, 0, fmt.Errorf("%w: source %dx%d exceeds %d pixels", entity.ErrInvalidInput, w, h, r.maxSourcePixels)
	}
	return w, h, nil
}

// release освобождает поверхности с нативной памятью (gocv.Mat).
func release(r Raster) {
	if c, ok := r.(io.Closer); ok {
		_ = c.Close()
	}
}

// Проверка реализации интерфейса
var _ port.OverlayRenderer = (*Renderer)(nil)
