package canvas

import (
	"fmt"
	"strings"

	"vision-overlay/internal/overlay"
)

const (
	BackendGG   = "gg"
	BackendGoCV = "gocv"
)

// Factory возвращает фабрику поверхностей по названию бэкенда.
func Factory(backend string) (overlay.RasterFactory, error) {
	switch strings.ToLower(backend) {
	case "", BackendGG:
		return NewGG, nil
	case BackendGoCV:
		return NewGoCV, nil
	default:
		return nil, fmt.Errorf("unknown render backend %q", backend)
	}
}
