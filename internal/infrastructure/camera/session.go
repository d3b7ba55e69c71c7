package camera

import (
	"context"
	"errors"

	"vision-overlay/internal/domain/port"
)

// WithSession открывает камеру, выполняет fn и закрывает камеру при любом исходе,
// в том числе при панике внутри fn.
func WithSession(ctx context.Context, cam port.Camera, fn func(ctx context.Context, cam port.Camera) error) (err error) {
	if err := cam.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := cam.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	return fn(ctx, cam)
}
