package app

import (
	"context"
	"errors"
	"fmt"

	"vision-overlay/internal/domain/entity"
	"vision-overlay/internal/domain/port"
	"vision-overlay/internal/infrastructure/camera"
	"vision-overlay/internal/overlay"
)

// ErrNoCamera камера не настроена.
var ErrNoCamera = errors.New("camera is not configured")

// AnnotateInput снимок и размер холста. Нулевой размер означает собственный размер снимка.
type AnnotateInput struct {
	Image  []byte
	Width  int
	Height int
	Mode   entity.FitMode
}

// AnnotateOutput детекции, гистограмма по классам и картинка с разметкой.
type AnnotateOutput struct {
	Detections []entity.Detection
	Histogram  *entity.ClassHistogram
	Image      []byte
}

// AnnotationService связывает инференс и отрисовку.
type AnnotationService struct {
	inferencer    port.Inferencer
	renderer      port.OverlayRenderer
	newCamera     func() port.Camera
	defaultMode   entity.FitMode
	minConfidence float64
}

type AnnotationOption func(*AnnotationService)

// WithCamera подключает источник снимков; камера создаётся на каждый захват.
func WithCamera(newCamera func() port.Camera) AnnotationOption {
	return func(s *AnnotationService) { s.newCamera = newCamera }
}

// WithDefaultMode задаёт режим масштабирования, если во входе он пуст.
func WithDefaultMode(mode entity.FitMode) AnnotationOption {
	return func(s *AnnotationService) { s.defaultMode = mode }
}

// WithMinConfidence отбрасывает детекции ниже порога.
func WithMinConfidence(threshold float64) AnnotationOption {
	return func(s *AnnotationService) { s.minConfidence = threshold }
}

// NewAnnotationService создаёт сервис разметки снимков.
func NewAnnotationService(inferencer port.Inferencer, renderer port.OverlayRenderer, opts ...AnnotationOption) *AnnotationService {
	s := &AnnotationService{
		inferencer:  inferencer,
		renderer:    renderer,
		defaultMode: entity.FitStretch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Detect запускает инференс и фильтрует результат по порогу уверенности.
func (s *AnnotationService) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	if s.inferencer == nil {
		return nil, errors.New("inferencer is not configured")
	}

	detections, err := s.inferencer.Infer(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("infer: %w", err)
	}

	filtered := make([]entity.Detection, 0, len(detections))
	for _, d := range detections {
		if d.Confidence >= s.minConfidence {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// Annotate находит объекты на снимке и рисует их поверх него.
func (s *AnnotationService) Annotate(ctx context.Context, in AnnotateInput) (*AnnotateOutput, error) {
	width, height, err := s.viewport(in)
	if err != nil {
		return nil, err
	}

	detections, err := s.Detect(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	mode := in.Mode
	if mode == "" {
		mode = s.defaultMode
	}

	img, err := s.renderer.Snapshot(in.Image, detections, width, height, mode)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	return &AnnotateOutput{
		Detections: detections,
		Histogram:  entity.NewClassHistogram(detections),
		Image:      img,
	}, nil
}

// Overlay находит объекты и возвращает прозрачный слой с разметкой для показа поверх снимка.
func (s *AnnotationService) Overlay(ctx context.Context, in AnnotateInput) (*AnnotateOutput, error) {
	width, height, err := s.viewport(in)
	if err != nil {
		return nil, err
	}

	detections, err := s.Detect(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	layer, err := s.renderer.Layer(in.Image, detections, width, height)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	return &AnnotateOutput{
		Detections: detections,
		Histogram:  entity.NewClassHistogram(detections),
		Image:      layer,
	}, nil
}

// CaptureAndAnnotate делает снимок камерой и размечает его. Камера освобождается при любом исходе.
func (s *AnnotationService) CaptureAndAnnotate(ctx context.Context, width, height int, mode entity.FitMode) (*AnnotateOutput, error) {
	if s.newCamera == nil {
		return nil, ErrNoCamera
	}

	var frame []byte
	err := camera.WithSession(ctx, s.newCamera(), func(ctx context.Context, cam port.Camera) error {
		var err error
		frame, err = cam.Capture(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	return s.Annotate(ctx, AnnotateInput{Image: frame, Width: width, Height: height, Mode: mode})
}

// viewport возвращает размер холста; 0x0 заменяется собственным размером снимка.
func (s *AnnotationService) viewport(in AnnotateInput) (int, int, error) {
	if in.Width == 0 && in.Height == 0 {
		return overlay.DecodeSize(in.Image)
	}
	if in.Width <= 0 || in.Height <= 0 {
		return 0, 0, fmt.Errorf("%w: target size %dx%d", entity.ErrInvalidInput, in.Width, in.Height)
	}
	return in.Width, in.Height, nil
}
