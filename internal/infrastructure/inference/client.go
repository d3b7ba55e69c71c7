package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vision-overlay/internal/domain/entity"
	"vision-overlay/internal/domain/port"
	"vision-overlay/internal/logging"
)

type predictRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type predictResponse struct {
	Detections []entity.Detection `json:"detections"`
}

// Client HTTP-клиент внешнего сервиса детекции.
type Client struct {
	url    string
	http   *http.Client
	strict bool
	log    zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент (тесты, прокси).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithStrictValidation отбрасывает детекции, нарушающие контракт.
func WithStrictValidation(strict bool) Option {
	return func(c *Client) { c.strict = strict }
}

// NewClient создаёт клиент с таймаутом на запрос.
func NewClient(url string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
		log:  logging.NewServiceLogger("inference"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Infer отправляет снимок в base64 и разбирает ответ {"detections": [...]}.
func (c *Client) Infer(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("%w: empty image", entity.ErrInvalidInput)
	}

	body, err := json.Marshal(predictRequest{ImageBase64: base64.StdEncoding.EncodeToString(imageData)})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := result.Detections
	if c.strict {
		detections = c.validate(detections)
	}

	c.log.Debug().
		Int("detections", len(detections)).
		Dur("latency", time.Since(started)).
		Msg("inference done")

	return detections, nil
}

func (c *Client) validate(in []entity.Detection) []entity.Detection {
	out := make([]entity.Detection, 0, len(in))
	for i, d := range in {
		if err := d.Validate(); err != nil {
			c.log.Warn().Err(err).Int("index", i).Msg("dropping malformed detection")
			continue
		}
		out = append(out, d)
	}
	return out
}

// CheckHealth проверяет доступность сервиса инференса.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.url, "/")+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}

var _ port.Inferencer = (*Client)(nil)
