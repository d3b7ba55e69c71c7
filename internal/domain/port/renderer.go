package port

import "vision-overlay/internal/domain/entity"

// OverlayRenderer интерфейс отрисовщика рамок и легенды
type OverlayRenderer interface {
	// Snapshot рисует детекции поверх снимка в заданном размере и возвращает JPEG
	Snapshot(imageData []byte, detections []entity.Detection, width, height int, mode entity.FitMode) ([]byte, error)

	// Layer рисует детекции на прозрачном слое поверх показанного снимка и возвращает PNG
	Layer(imageData []byte, detections []entity.Detection, width, height int) ([]byte, error)
}
