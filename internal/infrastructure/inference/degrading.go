package inference

import (
	"context"

	"github.com/rs/zerolog"

	"vision-overlay/internal/domain/entity"
	"vision-overlay/internal/domain/port"
	"vision-overlay/internal/logging"
)

// Degrading оборачивает Inferencer: любая ошибка логируется и превращается
// в пустой список детекций. Так ведёт себя прокси /api/infer.
type Degrading struct {
	next port.Inferencer
	log  zerolog.Logger
}

// NewDegrading создаёт обёртку над next.
func NewDegrading(next port.Inferencer) *Degrading {
	return &Degrading{next: next, log: logging.NewServiceLogger("inference")}
}

// Infer никогда не возвращает ошибку.
func (d *Degrading) Infer(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	detections, err := d.next.Infer(ctx, imageData)
	if err != nil {
		d.log.Error().Err(err).Msg("inference failed, returning no detections")
		return []entity.Detection{}, nil
	}
	if detections == nil {
		detections = []entity.Detection{}
	}
	return detections, nil
}

var _ port.Inferencer = (*Degrading)(nil)
