package port

import (
	"context"

	"vision-overlay/internal/domain/entity"
)

// Inferencer интерфейс внешнего сервиса детекции объектов
type Inferencer interface {
	// Infer отправляет снимок на инференс и возвращает найденные объекты
	Infer(ctx context.Context, imageData []byte) ([]entity.Detection, error)
}
