package overlay

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"vision-overlay/internal/domain/entity"
)

// Decode разбирает байты изображения в готовый к отрисовке кадр.
// Это единственная блокирующая стадия рендера.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", entity.ErrInvalidInput)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeFailure, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero-area image %dx%d", entity.ErrInvalidInput, b.Dx(), b.Dy())
	}
	return img, nil
}

// DecodeSize читает только заголовок и возвращает собственный размер изображения.
func DecodeSize(data []byte) (width, height int, err error) {
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("%w: empty image", entity.ErrInvalidInput)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", entity.ErrDecodeFailure, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("%w: zero-area image %dx%d", entity.ErrInvalidInput, cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}
