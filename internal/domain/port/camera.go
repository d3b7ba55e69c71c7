package port

import "context"

// Camera интерфейс источника снимков с явным жизненным циклом
type Camera interface {
	// Open захватывает устройство
	Open(ctx context.Context) error

	// Capture делает один снимок
	Capture(ctx context.Context) ([]byte, error)

	// Close освобождает устройство
	Close() error
}
