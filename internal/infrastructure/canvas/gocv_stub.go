//go:build !gocv
// +build !gocv

package canvas

import (
	"errors"

	"vision-overlay/internal/overlay"
)

// NewGoCV возвращает ошибку, если сборка без тега gocv.
func NewGoCV(width, height int) (overlay.Raster, error) {
	_ = width
	_ = height
	return nil, errors.New("gocv build tag is not enabled")
}
