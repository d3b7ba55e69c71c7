package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vision-overlay/internal/domain/port"
	"vision-overlay/internal/logging"
)

var (
	ErrClosed     = errors.New("camera is closed")
	ErrNotOpened  = errors.New("camera is not opened")
	ErrEmptyFrame = errors.New("camera returned empty frame")
)

const maxFrameBytes = 32 << 20

// SnapshotCamera камера, отдающая JPEG по HTTP (IP-камера, MJPEG-сервер со /snapshot).
type SnapshotCamera struct {
	url  string
	http *http.Client
	log  zerolog.Logger

	mu     sync.Mutex
	opened bool
	closed bool
}

// NewSnapshotCamera создаёт камеру; соединение не открывается до Open.
func NewSnapshotCamera(url string, timeout time.Duration) *SnapshotCamera {
	return &SnapshotCamera{
		url:  url,
		http: &http.Client{Timeout: timeout},
		log:  logging.NewServiceLogger("camera"),
	}
}

// Open проверяет, что камера отвечает, и помечает её захваченной.
func (c *SnapshotCamera) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.opened {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusMethodNotAllowed {
		return fmt.Errorf("open camera: status %d", resp.StatusCode)
	}

	c.opened = true
	c.log.Info().Str("url", c.url).Msg("camera opened")
	return nil
}

// Capture забирает один кадр.
func (c *SnapshotCamera) Capture(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	closed, opened := c.closed, c.opened
	c.mu.Unlock()

	if closed {
		return nil, ErrClosed
	}
	if !opened {
		return nil, ErrNotOpened
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("capture: status %d", resp.StatusCode)
	}

	frame, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBytes))
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}
	return frame, nil
}

// Close освобождает камеру. Повторный вызов безопасен.
func (c *SnapshotCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.opened {
		c.log.Info().Str("url", c.url).Msg("camera released")
	}
	return nil
}

var _ port.Camera = (*SnapshotCamera)(nil)
