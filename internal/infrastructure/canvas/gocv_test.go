//go:build gocv
// +build gocv

package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-overlay/internal/domain/entity"
	"vision-overlay/internal/overlay"
)

func closeRaster(t *testing.T, r overlay.Raster) {
	t.Helper()
	require.NoError(t, r.(*GoCVSurface).Close())
}

func TestGoCVSurface_StartsTransparent(t *testing.T) {
	s, err := NewGoCV(40, 30)
	require.NoError(t, err)
	defer closeRaster(t, s)

	s.StrokeRect(5, 5, 10, 10, 2, color.RGBA{R: 255, A: 255})
	img := s.Image()

	_, _, _, a := img.At(35, 25).RGBA()
	require.Zero(t, a)

	r, g, b, a := img.At(5, 10).RGBA()
	require.Equal(t, uint32(0xffff), r)
	require.Zero(t, g)
	require.Zero(t, b)
	require.Equal(t, uint32(0xffff), a)
}

func TestGoCVSurface_DrawImageIsOpaque(t *testing.T) {
	s, err := NewGoCV(20, 20)
	require.NoError(t, err)
	defer closeRaster(t, s)

	s.DrawImage(solid(10, 10, color.RGBA{G: 128, A: 255}), 0, 0, 20, 20)

	r, g, b, a := s.Image().At(10, 10).RGBA()
	require.Zero(t, r)
	require.InDelta(t, 128, g>>8, 2)
	require.Zero(t, b)
	require.Equal(t, uint32(0xffff), a)
}

func TestGoCVLayer_UntouchedPixelsTransparent(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, solid(100, 50, color.RGBA{G: 128, A: 255})))

	r := overlay.NewRenderer(NewGoCV)
	dets := []entity.Detection{{Class: "defect", Confidence: 0.9, BBox: entity.BBox{10, 10, 30, 30}}}

	out, err := r.Layer(src.Bytes(), dets, 400, 400)
	require.NoError(t, err)

	layer, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 400, 400), layer.Bounds())

	_, _, _, a := layer.At(399, 399).RGBA()
	require.Zero(t, a)

	// Легенда непрозрачна.
	_, _, _, a = layer.At(12, 12).RGBA()
	require.Equal(t, uint32(0xffff), a)
}
