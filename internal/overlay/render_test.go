package overlay

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-overlay/internal/domain/entity"
)

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{G: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRender_DefectScenario(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New)

	_, err := r.Render(Request{
		Source:       image.NewRGBA(image.Rect(0, 0, 1000, 800)),
		Detections:   []entity.Detection{{Class: "defect", Confidence: 0.87, BBox: entity.BBox{100, 100, 300, 300}}},
		TargetWidth:  500,
		TargetHeight: 400,
		Mode:         entity.FitStretch,
	})
	require.NoError(t, err)

	s := f.last()
	require.Equal(t, opDrawImage, s.ops[0].Kind)
	require.Equal(t, op{Kind: opDrawImage, X: 0, Y: 0, W: 500, H: 400}, s.ops[0])

	strokes := s.only(opStrokeRect)
	require.Len(t, strokes, 1)
	require.Equal(t, 50.0, strokes[0].X)
	require.Equal(t, 50.0, strokes[0].Y)
	require.Equal(t, 100.0, strokes[0].W)
	require.Equal(t, 100.0, strokes[0].H)
	require.Equal(t, SnapshotStyle(500, 400).LineWidth, strokes[0].LineWidth)

	texts := s.only(opFillText)
	require.Equal(t, "defect (87%)", texts[0].Text)
	require.Equal(t, "defect: 1", texts[1].Text)
}

func TestRender_HealthyBrokenLegend(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New)

	_, err := r.Render(Request{
		Source: image.NewRGBA(image.Rect(0, 0, 100, 100)),
		Detections: []entity.Detection{
			{Class: "healthy", Confidence: 0.9, BBox: entity.BBox{0, 0, 10, 10}},
			{Class: "healthy", Confidence: 0.8, BBox: entity.BBox{20, 20, 30, 30}},
			{Class: "broken", Confidence: 0.4, BBox: entity.BBox{40, 40, 50, 50}},
		},
		TargetWidth:  100,
		TargetHeight: 100,
		Mode:         entity.FitStretch,
	})
	require.NoError(t, err)

	s := f.last()
	require.Len(t, s.only(opStrokeRect), 3)

	var legend []string
	for _, o := range s.only(opFillText) {
		if o.Color == legendInk {
			legend = append(legend, o.Text)
		}
	}
	require.Equal(t, []string{"healthy: 2", "broken: 1"}, legend)
}

func TestRender_EmptyDetectionsStillDrawsLegend(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New)

	_, err := r.Render(Request{
		Source:       image.NewRGBA(image.Rect(0, 0, 64, 48)),
		TargetWidth:  64,
		TargetHeight: 48,
		Mode:         entity.FitStretch,
	})
	require.NoError(t, err)

	s := f.last()
	require.Empty(t, s.only(opStrokeRect))
	require.Empty(t, s.only(opFillText))

	panels := s.only(opFillRect)
	require.Len(t, panels, 1)
	require.Equal(t, 2*SnapshotStyle(64, 48).LegendPadding, panels[0].H)
}

func TestRender_DegenerateBoxIsDrawn(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New)

	_, err := r.Render(Request{
		Source:       image.NewRGBA(image.Rect(0, 0, 100, 100)),
		Detections:   []entity.Detection{{Class: "line", Confidence: 0.5, BBox: entity.BBox{10, 10, 10, 60}}},
		TargetWidth:  100,
		TargetHeight: 100,
		Mode:         entity.FitStretch,
	})
	require.NoError(t, err)

	strokes := f.last().only(opStrokeRect)
	require.Len(t, strokes, 1)
	require.Zero(t, strokes[0].W)
	require.Equal(t, 50.0, strokes[0].H)
}

func TestRender_Idempotent(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New)
	req := Request{
		Source: image.NewRGBA(image.Rect(0, 0, 1000, 800)),
		Detections: []entity.Detection{
			{Class: "a", Confidence: 0.33, BBox: entity.BBox{1, 2, 333, 444}},
			{Class: "b", Confidence: 0.66, BBox: entity.BBox{500, 600, 700, 799}},
		},
		TargetWidth:  333,
		TargetHeight: 777,
		Mode:         entity.FitAspect,
	}

	_, err := r.Render(req)
	require.NoError(t, err)
	_, err = r.Render(req)
	require.NoError(t, err)

	require.Len(t, f.made, 2)
	require.Equal(t, f.made[0].ops, f.made[1].ops)
}

func TestRender_AspectFillsLetterbox(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New)

	_, err := r.Render(Request{
		Source:       image.NewRGBA(image.Rect(0, 0, 1000, 500)),
		Detections:   []entity.Detection{{Class: "bean", Confidence: 1, BBox: entity.BBox{0, 0, 100, 100}}},
		TargetWidth:  800,
		TargetHeight: 800,
		Mode:         entity.FitAspect,
	})
	require.NoError(t, err)

	s := f.last()
	require.Equal(t, op{Kind: opFillRect, W: 800, H: 800, Color: letterboxBg}, s.ops[0])
	require.Equal(t, opDrawImage, s.ops[1].Kind)
	require.InDeltaSlice(t, []float64{0, 200, 800, 400}, []float64{s.ops[1].X, s.ops[1].Y, s.ops[1].W, s.ops[1].H}, 1e-9)

	stroke := s.only(opStrokeRect)[0]
	require.InDeltaSlice(t, []float64{0, 200, 80, 80}, []float64{stroke.X, stroke.Y, stroke.W, stroke.H}, 1e-9)
}

func TestRender_InvalidInput(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New)
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))

	for _, size := range [][2]int{{0, 10}, {10, 0}, {-5, 10}} {
		_, err := r.Render(Request{Source: src, TargetWidth: size[0], TargetHeight: size[1], Mode: entity.FitStretch})
		require.True(t, errors.Is(err, entity.ErrInvalidInput), "size %v", size)
	}

	_, err := r.Render(Request{TargetWidth: 10, TargetHeight: 10, Mode: entity.FitStretch})
	require.True(t, errors.Is(err, entity.ErrInvalidInput))

	_, err = r.Render(Request{Source: image.NewRGBA(image.Rect(0, 0, 0, 0)), TargetWidth: 10, TargetHeight: 10, Mode: entity.FitStretch})
	require.True(t, errors.Is(err, entity.ErrInvalidInput))

	require.Empty(t, f.made)
}

func TestRender_RejectsOversizeTarget(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New)
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))

	_, err := r.Render(Request{Source: src, TargetWidth: 1 << 20, TargetHeight: 1 << 20, Mode: entity.FitStretch})
	require.True(t, errors.Is(err, entity.ErrInvalidInput))

	r = NewRenderer(f.New, WithMaxTargetSide(100))
	_, err = r.Snapshot(solidPNG(t, 10, 10), nil, 101, 50, entity.FitStretch)
	require.True(t, errors.Is(err, entity.ErrInvalidInput))

	_, err = r.Layer(solidPNG(t, 10, 10), nil, 50, 101)
	require.True(t, errors.Is(err, entity.ErrInvalidInput))

	_, err = r.Render(Request{Source: src, TargetWidth: 100, TargetHeight: 100, Mode: entity.FitStretch})
	require.NoError(t, err)
	require.Len(t, f.made, 1)
}

func TestSnapshot_RejectsOversizeSource(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New, WithMaxSourcePixels(99))

	_, err := r.Snapshot(solidPNG(t, 10, 10), nil, 20, 20, entity.FitStretch)
	require.True(t, errors.Is(err, entity.ErrInvalidInput))

	_, err = r.Layer(solidPNG(t, 10, 10), nil, 20, 20)
	require.True(t, errors.Is(err, entity.ErrInvalidInput))
	require.Empty(t, f.made)

	r = NewRenderer(f.New, WithMaxSourcePixels(100))
	_, err = r.Snapshot(solidPNG(t, 10, 10), nil, 20, 20, entity.FitStretch)
	require.NoError(t, err)
}

func TestRender_SurfaceFactoryError(t *testing.T) {
	boom := errors.New("no backend")
	r := NewRenderer(func(int, int) (Raster, error) { return nil, boom })

	_, err := r.Render(Request{Source: image.NewRGBA(image.Rect(0, 0, 10, 10)), TargetWidth: 10, TargetHeight: 10, Mode: entity.FitStretch})
	require.ErrorIs(t, err, boom)
}

func TestSnapshot_EncodesJPEG(t *testing.T) {
	f := &recordingFactory{}
	r := NewRenderer(f.New, WithJPEGQuality(70))

	out, err := r.Snapshot(solidPNG(t, 40, 20), nil, 80, 60, entity.FitStretch)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 80, img.Bounds().Dx())
	require.Equal(t, 60, img.Bounds().Dy())
}

func TestSnapshot_DecodeErrors(t *testing.T) {
	r := NewRenderer((&recordingFactory{}).New)

	_, err := r.Snapshot([]byte("definitely not an image"), nil, 10, 10, entity.FitStretch)
	require.True(t, errors.Is(err, entity.ErrDecodeFailure))

	_, err = r.Snapshot(nil, nil, 10, 10, entity.FitStretch)
	require.True(t, errors.Is(err, entity.ErrInvalidInput))
}

func TestRenderOnto_LiveStyleAspect(t *testing.T) {
	s := newRecordingSurface(800, 800)
	dets := []entity.Detection{{Class: "bean", Confidence: 0.5, BBox: entity.BBox{0, 0, 100, 100}}}

	require.NoError(t, RenderOnto(s, dets, 1000, 500))

	require.Empty(t, s.only(opDrawImage))
	stroke := s.only(opStrokeRect)[0]
	require.InDeltaSlice(t, []float64{0, 200, 80, 80}, []float64{stroke.X, stroke.Y, stroke.W, stroke.H}, 1e-9)
	require.Equal(t, 3.0, stroke.LineWidth)

	label := s.only(opFillText)[0]
	require.Equal(t, "bean (50%)", label.Text)
	require.InDelta(t, 2.0, label.X, 1e-9)
	require.InDelta(t, 195.0, label.Y, 1e-9)
	require.Equal(t, 16.0, label.Size)
}

func TestRenderOnto_InvalidInput(t *testing.T) {
	require.True(t, errors.Is(RenderOnto(nil, nil, 10, 10), entity.ErrInvalidInput))
	require.True(t, errors.Is(RenderOnto(newRecordingSurface(0, 10), nil, 10, 10), entity.ErrInvalidInput))
	require.True(t, errors.Is(RenderOnto(newRecordingSurface(10, 10), nil, 0, 10), entity.ErrInvalidInput))
}

func TestLayer_EncodesPNG(t *testing.T) {
	r := NewRenderer((&recordingFactory{}).New)

	out, err := r.Layer(solidPNG(t, 100, 50), []entity.Detection{{Class: "x", Confidence: 1, BBox: entity.BBox{1, 1, 5, 5}}}, 320, 240)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 320, 240), img.Bounds())

	_, err = r.Layer(solidPNG(t, 100, 50), nil, 0, 240)
	require.True(t, errors.Is(err, entity.ErrInvalidInput))
}
